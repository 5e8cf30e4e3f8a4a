package entities

import "time"

// Result represents the outcome of a player's hand at settlement
type Result string

const (
	ResultWin       Result = "WIN"
	ResultLose      Result = "LOSE"
	ResultPush      Result = "PUSH"
	ResultBlackjack Result = "BLACKJACK"
)

// String returns the string representation of the result
func (r Result) String() string {
	return string(r)
}

// IsWin returns true if this result represents a win
func (r Result) IsWin() bool {
	return r == ResultWin || r == ResultBlackjack
}

// PlayerResult records how a single player's hand settled
type PlayerResult struct {
	Name   string `json:"name"`
	Result Result `json:"result"`
	Total  int    `json:"total"`
	// Payout is the number of chips returned to the player at settlement,
	// stake included. Zero for a lost hand.
	Payout int `json:"payout"`
}

// RoundResult records the outcome of one finished round
type RoundResult struct {
	SessionID       string          `json:"sessionId"`
	Creator         string          `json:"creator"`
	CompletedAt     time.Time       `json:"completedAt"`
	DealerTotal     int             `json:"dealerTotal"`
	DealerBusted    bool            `json:"dealerBusted"`
	DealerBlackjack bool            `json:"dealerBlackjack"`
	PlayerResults   []*PlayerResult `json:"playerResults"`
}
