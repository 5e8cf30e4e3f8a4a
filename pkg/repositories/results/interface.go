package results

import (
	"context"

	"github.com/felttable/blackjack/pkg/entities"
)

// Repository stores the results of finished rounds. Live round state is
// never persisted; only the settled outcome of each hand is.
type Repository interface {
	// SaveRoundResult stores the outcome of one finished round
	SaveRoundResult(ctx context.Context, result *entities.RoundResult) error

	// GetSessionResults retrieves the most recent results for a session,
	// oldest first
	GetSessionResults(ctx context.Context, sessionID string, limit int) ([]*entities.RoundResult, error)

	// GetPlayerResults retrieves results for rounds the named player took
	// part in, matched case-insensitively
	GetPlayerResults(ctx context.Context, name string) ([]*entities.RoundResult, error)

	// Close closes any resources used by the repository
	Close() error
}
