package blackjack

import "github.com/felttable/blackjack/pkg/entities"

// Hand is the shared shape for player and dealer hands: the dealt cards in
// display order plus the totals derived from them. It is embedded in Player
// and Dealer rather than subclassed.
type Hand struct {
	Cards []*entities.Card
	Total int
	// Busted is true once Total exceeds 21
	Busted bool
	// Blackjack is true once Total reaches exactly 21, on any number of
	// cards, not only a two-card natural. Settlement pays 3:2 on it either way.
	Blackjack bool
}

// Reset clears the hand for a new round
func (h *Hand) Reset() {
	h.Cards = nil
	h.Total = 0
	h.Busted = false
	h.Blackjack = false
}

// Hit appends a card to the hand and recomputes the derived totals. A hand
// that is already busted or on blackjack refuses further cards and returns
// nil without mutating anything, so callers must not consume a card from
// their draw source before checking the returned value.
func (h *Hand) Hit(card *entities.Card) *entities.Card {
	if h.Busted || h.Blackjack {
		return nil
	}
	if card == nil {
		return nil
	}

	h.Cards = append(h.Cards, card)
	h.Total = Score(h.Cards)

	if h.Total > BlackjackTotal {
		h.Busted = true
	}
	if h.Total == BlackjackTotal {
		h.Blackjack = true
	}

	return card
}

// Done reports whether the hand can take no further cards
func (h *Hand) Done() bool {
	return h.Busted || h.Blackjack
}

// CardCodes returns the compact codes of the dealt cards, in deal order
func (h *Hand) CardCodes() []string {
	codes := make([]string, 0, len(h.Cards))
	for _, card := range h.Cards {
		codes = append(codes, card.String())
	}
	return codes
}
