package blackjack

// PlayerView is a player's slice of the snapshot
type PlayerView struct {
	Name      string   `json:"name"`
	Cards     []string `json:"cards"`
	Total     int      `json:"total"`
	Chips     int      `json:"chips"`
	Busted    bool     `json:"busted"`
	Blackjack bool     `json:"blackjack"`
	IsCurrent bool     `json:"isCurrent"`
}

// DealerView is the dealer's slice of the snapshot
type DealerView struct {
	Cards     []string `json:"cards"`
	Total     int      `json:"total"`
	Busted    bool     `json:"busted"`
	Blackjack bool     `json:"blackjack"`
}

// Snapshot is a plain-data copy of the round for display. Serialization is
// the caller's business; nothing here aliases live round state.
type Snapshot struct {
	SessionID     string       `json:"sessionId"`
	Creator       string       `json:"creator"`
	Status        State        `json:"status"`
	Players       []PlayerView `json:"players"`
	Dealer        DealerView   `json:"dealer"`
	CurrentPlayer string       `json:"currentPlayer,omitempty"`
	Messages      []string     `json:"messages"`
}

// Snapshot returns the current state of the round as plain data. It is a
// pure read; no round state changes.
func (r *Round) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := &Snapshot{
		SessionID: r.ID,
		Creator:   r.Creator,
		Status:    r.State,
		Players:   make([]PlayerView, 0, len(r.Players)),
		Dealer: DealerView{
			Cards:     r.Dealer.CardCodes(),
			Total:     r.Dealer.Total,
			Busted:    r.Dealer.Busted,
			Blackjack: r.Dealer.Blackjack,
		},
		Messages: r.Messages.Entries(),
	}

	for i, p := range r.Players {
		snap.Players = append(snap.Players, PlayerView{
			Name:      p.Name,
			Cards:     p.CardCodes(),
			Total:     p.Total,
			Chips:     p.Chips,
			Busted:    p.Busted,
			Blackjack: p.Blackjack,
			IsCurrent: i == r.turn && r.State == StateInProgress,
		})
	}

	if p := r.currentPlayer(); p != nil {
		snap.CurrentPlayer = p.Name
	}

	return snap
}
