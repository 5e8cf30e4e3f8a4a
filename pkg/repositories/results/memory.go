package results

import (
	"context"
	"strings"
	"sync"

	"github.com/felttable/blackjack/pkg/entities"
)

// MemoryRepository implements Repository with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// Map of sessionID to round results, oldest first
	sessionResults map[string][]*entities.RoundResult
	// Map of lowercased player name to round results
	playerResults map[string][]*entities.RoundResult
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessionResults: make(map[string][]*entities.RoundResult),
		playerResults:  make(map[string][]*entities.RoundResult),
	}
}

// SaveRoundResult stores a round result under its session and every player
func (r *MemoryRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessionResults[result.SessionID] = append(r.sessionResults[result.SessionID], result)

	for _, pr := range result.PlayerResults {
		key := strings.ToLower(pr.Name)
		r.playerResults[key] = append(r.playerResults[key], result)
	}

	return nil
}

// GetSessionResults retrieves recent results for a session
func (r *MemoryRepository) GetSessionResults(ctx context.Context, sessionID string, limit int) ([]*entities.RoundResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := r.sessionResults[sessionID]
	if results == nil {
		return []*entities.RoundResult{}, nil
	}

	if limit > 0 && len(results) > limit {
		results = results[len(results)-limit:]
	}

	out := make([]*entities.RoundResult, len(results))
	copy(out, results)
	return out, nil
}

// GetPlayerResults retrieves results for a player
func (r *MemoryRepository) GetPlayerResults(ctx context.Context, name string) ([]*entities.RoundResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := r.playerResults[strings.ToLower(name)]
	if results == nil {
		return []*entities.RoundResult{}, nil
	}

	out := make([]*entities.RoundResult, len(results))
	copy(out, results)
	return out, nil
}

// Close is a no-op for the memory repository
func (r *MemoryRepository) Close() error {
	return nil
}
