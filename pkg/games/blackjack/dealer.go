package blackjack

import "github.com/felttable/blackjack/pkg/entities"

// Dealer is a hand with the fixed house strategy and no chip bookkeeping
type Dealer struct {
	Hand
}

// NewDealer creates a dealer with an empty hand
func NewDealer() *Dealer {
	return &Dealer{}
}

// Play runs the house strategy: hit while the total is below 17. The hit
// guard stops the loop early if the dealer busts or lands on 21.
func (d *Dealer) Play(deck *entities.Deck) {
	for d.Total < DealerStandTotal {
		if d.Hit(deck.Draw()) == nil {
			return
		}
	}
}
