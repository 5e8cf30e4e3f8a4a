package blackjack

import (
	"strconv"

	"github.com/felttable/blackjack/pkg/entities"
)

const (
	// BlackjackTotal is the hand total the whole game revolves around
	BlackjackTotal = 21
	// DealerStandTotal is the total at which the dealer must stop hitting
	DealerStandTotal = 17

	// DefaultStake is deducted from every player at the start of a round
	DefaultStake = 10
	// DefaultChips is the starting balance for a newly seated player
	DefaultChips = 100
	// DefaultMaxPlayers caps the table size unless the creator asks otherwise
	DefaultMaxPlayers = 5
)

// CardValue returns the blackjack face value of a card. Aces count as 11
// here; Score downgrades them to 1 as needed.
func CardValue(card *entities.Card) int {
	switch card.Rank {
	case entities.Ace:
		return 11
	case entities.Jack, entities.Queen, entities.King:
		return 10
	default:
		val, _ := strconv.Atoi(string(card.Rank))
		return val
	}
}

// IsAce reports whether the card is an ace
func IsAce(card *entities.Card) bool {
	return card.Rank == entities.Ace
}

// Score computes the best total for a hand: every ace starts at 11 and is
// re-counted as 1, one at a time, while the total exceeds 21. The result is
// always derived from the full card sequence, never patched incrementally.
func Score(cards []*entities.Card) int {
	total := 0
	aces := 0

	for _, card := range cards {
		total += CardValue(card)
		if IsAce(card) {
			aces++
		}
	}

	for total > BlackjackTotal && aces > 0 {
		total -= 10
		aces--
	}

	return total
}
