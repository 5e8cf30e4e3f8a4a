package blackjack

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/felttable/blackjack/internal/types"
	"github.com/felttable/blackjack/pkg/entities"
	"github.com/felttable/blackjack/pkg/repositories/results"
)

// ManagerConfig carries the table defaults applied to every session
type ManagerConfig struct {
	Stake         int
	StartingChips int
	MaxPlayers    int
	IdleTTL       time.Duration
}

// Manager owns all live sessions, keyed by session ID. Each session is one
// Round; operations against a session are serialized by the round's own
// lock, so the manager only guards its map.
type Manager struct {
	repo results.Repository
	cfg  ManagerConfig

	mu     sync.RWMutex
	rounds map[string]*Round
}

// NewManager creates a session manager backed by a results repository
func NewManager(repo results.Repository, cfg ManagerConfig) *Manager {
	if repo == nil {
		panic("repository cannot be nil")
	}
	if cfg.Stake <= 0 {
		cfg.Stake = DefaultStake
	}
	if cfg.StartingChips <= 0 {
		cfg.StartingChips = DefaultChips
	}
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = DefaultMaxPlayers
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 24 * time.Hour
	}

	return &Manager{
		repo:   repo,
		cfg:    cfg,
		rounds: make(map[string]*Round),
	}
}

// CreateSession creates a round with the creator already seated
func (m *Manager) CreateSession(creatorName string, maxPlayers int) (*Round, error) {
	creatorName = strings.TrimSpace(creatorName)
	if creatorName == "" {
		return nil, types.NewGameError(types.ErrInvalidArgument, "a creator name is required")
	}
	if maxPlayers <= 0 || maxPlayers > m.cfg.MaxPlayers {
		maxPlayers = m.cfg.MaxPlayers
	}

	round := NewRound(creatorName, maxPlayers)
	round.Stake = m.cfg.Stake
	if err := round.AddPlayer(creatorName, m.cfg.StartingChips); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.rounds[round.ID] = round
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"session": round.ID,
		"creator": creatorName,
	}).Info("session created")

	return round, nil
}

// GetSession returns the round for a session ID
func (m *Manager) GetSession(id string) (*Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	round, ok := m.rounds[id]
	if !ok {
		return nil, types.NewGameError(types.ErrSessionNotFound, "no such session")
	}
	return round, nil
}

// Join seats a player at the session's table with the standard chip stack
func (m *Manager) Join(id, name string) (*Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.NewGameError(types.ErrInvalidArgument, "a player name is required")
	}

	round, err := m.GetSession(id)
	if err != nil {
		return nil, err
	}
	if err := round.AddPlayer(name, m.cfg.StartingChips); err != nil {
		return nil, err
	}
	return round.Snapshot(), nil
}

// Leave unseats a player before the round starts
func (m *Manager) Leave(id, name string) (*Snapshot, error) {
	round, err := m.GetSession(id)
	if err != nil {
		return nil, err
	}
	if err := round.RemovePlayer(name); err != nil {
		return nil, err
	}
	return round.Snapshot(), nil
}

// Start begins the session's round
func (m *Manager) Start(id string) (*Snapshot, error) {
	round, err := m.GetSession(id)
	if err != nil {
		return nil, err
	}
	if err := round.Start(); err != nil {
		return nil, err
	}
	return round.Snapshot(), nil
}

// Hit draws a card for the named player and persists the result if the
// action finished the round
func (m *Manager) Hit(ctx context.Context, id, name string) (*entities.Card, *Snapshot, error) {
	round, err := m.GetSession(id)
	if err != nil {
		return nil, nil, err
	}

	card, err := round.Hit(name)
	if err != nil {
		return nil, nil, err
	}

	m.saveIfFinished(ctx, round)
	return card, round.Snapshot(), nil
}

// Stand ends the named player's turn and persists the result if the action
// finished the round
func (m *Manager) Stand(ctx context.Context, id, name string) (*Snapshot, error) {
	round, err := m.GetSession(id)
	if err != nil {
		return nil, err
	}

	if err := round.Stand(name); err != nil {
		return nil, err
	}

	m.saveIfFinished(ctx, round)
	return round.Snapshot(), nil
}

// Snapshot returns the session's current state without mutating it
func (m *Manager) Snapshot(id string) (*Snapshot, error) {
	round, err := m.GetSession(id)
	if err != nil {
		return nil, err
	}
	return round.Snapshot(), nil
}

// NextRound swaps the finished round for a fresh one at the same table,
// carrying each player's chips forward
func (m *Manager) NextRound(id string) (*Snapshot, error) {
	round, err := m.GetSession(id)
	if err != nil {
		return nil, err
	}

	next, err := round.NextRound()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.rounds[next.ID] = next
	m.mu.Unlock()

	return next.Snapshot(), nil
}

// RemoveSession drops a session from the manager
func (m *Manager) RemoveSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rounds, id)
}

// SessionCount returns the number of live sessions
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rounds)
}

// CleanupIdle removes sessions that have seen no activity for the idle TTL.
// Suitable for running on a schedule.
func (m *Manager) CleanupIdle(ctx context.Context) error {
	cutoff := time.Now().Add(-m.cfg.IdleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, round := range m.rounds {
		if round.LastActivity().Before(cutoff) {
			delete(m.rounds, id)
			logrus.WithField("session", id).Info("reaped idle session")
		}
	}
	return nil
}

// saveIfFinished persists the round result the first time the round is seen
// finished. A storage failure is logged, not surfaced; the round itself has
// already settled.
func (m *Manager) saveIfFinished(ctx context.Context, round *Round) {
	result := round.TakeResult()
	if result == nil {
		return
	}

	if err := m.repo.SaveRoundResult(ctx, result); err != nil {
		logrus.WithError(err).WithField("session", round.ID).Error("failed to save round result")
	}
}

// SessionResults returns the persisted history for a session
func (m *Manager) SessionResults(ctx context.Context, id string, limit int) ([]*entities.RoundResult, error) {
	return m.repo.GetSessionResults(ctx, id, limit)
}

// PlayerResults returns the persisted history for a player
func (m *Manager) PlayerResults(ctx context.Context, name string) ([]*entities.RoundResult, error) {
	return m.repo.GetPlayerResults(ctx, name)
}
