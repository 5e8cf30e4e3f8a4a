package blackjack

import (
	"github.com/felttable/blackjack/internal/types"
)

// Player is a seated participant: a hand plus chip and bet bookkeeping.
// Bet is non-zero only between stake placement and settlement.
type Player struct {
	Name string
	Hand
	Chips int
	Bet   int
}

// NewPlayer seats a player with a starting chip balance
func NewPlayer(name string, chips int) *Player {
	return &Player{
		Name:  name,
		Chips: chips,
	}
}

// PlaceBet moves chips into the player's bet. A bet larger than the current
// balance is rejected without touching either field.
func (p *Player) PlaceBet(amount int) error {
	if amount > p.Chips {
		return types.NewGameError(types.ErrInsufficientChips, p.Name+" cannot cover the stake")
	}

	p.Bet = amount
	p.Chips -= amount
	return nil
}

// winBet pays the returned stake plus winnings into the player's chips and
// clears the bet. It returns the full payout for the settlement message.
func (p *Player) winBet(winnings int) int {
	if p.Bet <= 0 {
		return 0
	}

	payout := p.Bet + winnings
	p.Chips += payout
	p.Bet = 0
	return payout
}

// pushBet returns only the stake
func (p *Player) pushBet() int {
	payout := p.Bet
	p.Chips += payout
	p.Bet = 0
	return payout
}

// loseBet forfeits the stake; the chips were already debited at stake time
func (p *Player) loseBet() int {
	lost := p.Bet
	p.Bet = 0
	return lost
}
