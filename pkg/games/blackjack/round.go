package blackjack

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felttable/blackjack/internal/types"
	"github.com/felttable/blackjack/pkg/entities"
)

// State is the lifecycle state of a round
type State string

const (
	StateWaiting    State = "waiting"
	StateInProgress State = "in_progress"
	StateFinished   State = "finished"
)

// Round drives a single hand of blackjack for a table of players: the deck,
// the turn cursor, the dealer and the settlement of every bet. A round moves
// one way through waiting -> in_progress -> finished; the next hand is a
// fresh Round built with NextRound.
//
// All operations on one Round are serialized behind its mutex. Distinct
// rounds share nothing and may proceed concurrently.
type Round struct {
	ID         string
	Creator    string
	MaxPlayers int
	Stake      int

	Players []*Player
	Dealer  *Dealer
	Deck    *entities.Deck

	State    State
	Messages *MessageLog

	CreatedAt time.Time

	mu           sync.Mutex
	turn         int
	lastActivity time.Time
	result       *entities.RoundResult
	resultTaken  bool

	// newDeck builds the shuffled deck at round start; swapped out in tests
	// to deal rigged hands
	newDeck func() *entities.Deck
}

// NewRound creates a round in the waiting state. No players are seated yet.
func NewRound(creatorName string, maxPlayers int) *Round {
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}

	now := time.Now()
	return &Round{
		ID:           uuid.New().String(),
		Creator:      creatorName,
		MaxPlayers:   maxPlayers,
		Stake:        DefaultStake,
		Dealer:       NewDealer(),
		State:        StateWaiting,
		Messages:     NewMessageLog(),
		CreatedAt:    now,
		lastActivity: now,
		newDeck: func() *entities.Deck {
			deck := entities.NewDeck()
			deck.Shuffle()
			return deck
		},
	}
}

// AddPlayer seats a player. Only possible while the round is waiting; a full
// table or a name already taken (case-insensitively) is rejected.
func (r *Round) AddPlayer(name string, chips int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if r.State != StateWaiting {
		return types.NewGameError(types.ErrInvalidState, "players can only join before the round starts")
	}
	if len(r.Players) >= r.MaxPlayers {
		return types.NewGameError(types.ErrTooManyPlayers, "the table is full")
	}
	for _, p := range r.Players {
		if strings.EqualFold(p.Name, name) {
			return types.NewGameError(types.ErrAlreadyJoined, "that name is already taken")
		}
	}

	if chips <= 0 {
		chips = DefaultChips
	}
	r.Players = append(r.Players, NewPlayer(name, chips))
	return nil
}

// RemovePlayer unseats a player. Only possible while the round is waiting.
func (r *Round) RemovePlayer(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if r.State != StateWaiting {
		return types.NewGameError(types.ErrInvalidState, "players can only leave before the round starts")
	}

	for i, p := range r.Players {
		if strings.EqualFold(p.Name, name) {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			if r.turn >= len(r.Players) {
				r.turn = 0
			}
			return nil
		}
	}

	return types.NewGameError(types.ErrPlayerNotFound, "no such player at this table")
}

// Start shuffles a fresh deck, takes the stake from every player and deals
// two cards round-robin to each player and then the dealer. Any player who
// cannot cover the stake rejects the whole start without mutating anything.
func (r *Round) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if r.State != StateWaiting {
		return types.NewGameError(types.ErrInvalidState, "the round has already started")
	}
	if len(r.Players) == 0 {
		return types.NewGameError(types.ErrNotEnoughPlayers, "at least one player is required")
	}
	for _, p := range r.Players {
		if p.Chips < r.Stake {
			return types.NewGameError(types.ErrInsufficientChips, p.Name+" cannot cover the stake")
		}
	}

	r.Deck = r.newDeck()
	r.Dealer = NewDealer()
	for _, p := range r.Players {
		p.Reset()
		if err := p.PlaceBet(r.Stake); err != nil {
			return err
		}
	}

	// Two passes, one card per party per pass, players first then the dealer
	for pass := 0; pass < 2; pass++ {
		for _, p := range r.Players {
			p.Hit(r.Deck.Draw())
		}
		r.Dealer.Hit(r.Deck.Draw())
	}

	r.turn = 0
	r.State = StateInProgress
	return nil
}

// Hit draws one card onto the named player's hand. Only the current player
// may hit; busting or landing on 21 forces the turn to advance as part of the
// same call. A hand that is already done advances the turn without drawing.
func (r *Round) Hit(name string) (*entities.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	p, err := r.turnPlayer(name)
	if err != nil {
		return nil, err
	}

	if p.Done() {
		r.advanceTurn()
		return nil, nil
	}

	card := p.Hit(r.Deck.Draw())
	if card == nil {
		return nil, types.NewGameError(types.ErrInternalError, "the deck is out of cards")
	}

	if p.Done() {
		r.advanceTurn()
	}
	return card, nil
}

// Stand ends the named player's turn. Only the current player may stand.
func (r *Round) Stand(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if _, err := r.turnPlayer(name); err != nil {
		return err
	}

	r.advanceTurn()
	return nil
}

// turnPlayer validates that the round is live and that name matches the
// current player. Callers hold the lock.
func (r *Round) turnPlayer(name string) (*Player, error) {
	if r.State != StateInProgress {
		return nil, types.NewGameError(types.ErrInvalidState, "the round is not in progress")
	}

	p := r.currentPlayer()
	if p == nil || !strings.EqualFold(p.Name, name) {
		return nil, types.NewGameError(types.ErrNotPlayerTurn, "it is not your turn")
	}
	return p, nil
}

func (r *Round) currentPlayer() *Player {
	if r.State != StateInProgress || r.turn >= len(r.Players) {
		return nil
	}
	return r.Players[r.turn]
}

// CurrentPlayerName returns the name of the player whose turn it is, or the
// empty string when no turn is live.
func (r *Round) CurrentPlayerName() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p := r.currentPlayer(); p != nil {
		return p.Name
	}
	return ""
}

// advanceTurn moves the cursor to the next player. When the last player's
// turn ends the dealer plays out its hand, the bets settle and the round
// finishes. Callers hold the lock.
func (r *Round) advanceTurn() {
	r.turn++
	if r.turn < len(r.Players) {
		return
	}

	r.turn = 0
	r.Dealer.Play(r.Deck)
	r.settle()
	r.State = StateFinished
}

// settle resolves every outstanding bet against the dealer's hand, in player
// order. A player whose bet is already zero is skipped, which makes a repeat
// invocation a no-op. The dealer's hand line is logged before any player
// line. Callers hold the lock.
func (r *Round) settle() {
	dealerTotal := r.Dealer.Total
	r.Messages.Add("Dealer's hand: %s (Total: %d)", strings.Join(r.Dealer.CardCodes(), ", "), dealerTotal)

	first := r.result == nil
	var playerResults []*entities.PlayerResult

	for _, p := range r.Players {
		r.Messages.Add("%s's hand: %s (Total: %d)", p.Name, strings.Join(p.CardCodes(), ", "), p.Total)

		if p.Bet <= 0 {
			continue
		}

		var outcome entities.Result
		var payout int

		switch {
		case p.Busted:
			p.loseBet()
			outcome = entities.ResultLose
			r.Messages.Add("%s busted and lost their bet!", p.Name)
		case r.Dealer.Busted:
			payout = p.winBet(p.Bet)
			outcome = entities.ResultWin
			r.Messages.Add("Dealer busted! %s wins %d chips!", p.Name, payout)
		case p.Blackjack && r.Dealer.Blackjack:
			payout = p.pushBet()
			outcome = entities.ResultPush
			r.Messages.Add("Both have blackjack! %s pushes.", p.Name)
		case p.Blackjack:
			payout = p.winBet(p.Bet * 3 / 2)
			outcome = entities.ResultBlackjack
			r.Messages.Add("Blackjack! %s wins %d chips!", p.Name, payout)
		case r.Dealer.Blackjack:
			p.loseBet()
			outcome = entities.ResultLose
			r.Messages.Add("Dealer has blackjack! %s loses their bet!", p.Name)
		case p.Total > dealerTotal:
			payout = p.winBet(p.Bet)
			outcome = entities.ResultWin
			r.Messages.Add("%s wins %d chips!", p.Name, payout)
		case p.Total == dealerTotal:
			payout = p.pushBet()
			outcome = entities.ResultPush
			r.Messages.Add("%s pushes and gets their bet back", p.Name)
		default:
			p.loseBet()
			outcome = entities.ResultLose
			r.Messages.Add("%s loses their bet!", p.Name)
		}

		if first {
			playerResults = append(playerResults, &entities.PlayerResult{
				Name:   p.Name,
				Result: outcome,
				Total:  p.Total,
				Payout: payout,
			})
		}
	}

	if first {
		r.result = &entities.RoundResult{
			SessionID:       r.ID,
			Creator:         r.Creator,
			CompletedAt:     time.Now(),
			DealerTotal:     dealerTotal,
			DealerBusted:    r.Dealer.Busted,
			DealerBlackjack: r.Dealer.Blackjack,
			PlayerResults:   playerResults,
		}
	}
}

// TakeResult hands out the round result exactly once, for persistence. It
// returns nil until the round finishes and on every call after the first.
func (r *Round) TakeResult() *entities.RoundResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.result == nil || r.resultTaken {
		return nil
	}
	r.resultTaken = true
	return r.result
}

// NextRound builds the follow-up round for the same table: same session ID,
// creator and stake, every player re-seated with the chips they hold now and
// an empty hand.
func (r *Round) NextRound() (*Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != StateFinished {
		return nil, types.NewGameError(types.ErrInvalidState, "the current round is still being played")
	}

	next := NewRound(r.Creator, r.MaxPlayers)
	next.ID = r.ID
	next.Stake = r.Stake
	for _, p := range r.Players {
		next.Players = append(next.Players, NewPlayer(p.Name, p.Chips))
	}
	return next, nil
}

// LastActivity reports when the round last served a call, for idle reaping
func (r *Round) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivity
}

// touch records activity. Callers hold the lock.
func (r *Round) touch() {
	r.lastActivity = time.Now()
}
