package results

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/felttable/blackjack/pkg/entities"
)

// SQLite table schemas
const (
	createRoundResultsTableSQL = `
	CREATE TABLE IF NOT EXISTS round_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		creator TEXT NOT NULL,
		completed_at TIMESTAMP NOT NULL,
		dealer_total INTEGER NOT NULL,
		dealer_busted BOOLEAN NOT NULL,
		dealer_blackjack BOOLEAN NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_round_results_session ON round_results(session_id)`

	createPlayerResultsTableSQL = `
	CREATE TABLE IF NOT EXISTS player_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		round_result_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		result TEXT NOT NULL,
		total INTEGER NOT NULL,
		payout INTEGER NOT NULL,
		FOREIGN KEY (round_result_id) REFERENCES round_results(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_player_results_name ON player_results(name)`
)

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure the directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	for _, schema := range []string{createRoundResultsTableSQL, createPlayerResultsTableSQL} {
		if _, err := db.Exec(schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("error creating tables: %w", err)
		}
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveRoundResult stores a round result and its per-player rows in one
// transaction
func (r *SQLiteRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO round_results (session_id, creator, completed_at, dealer_total, dealer_busted, dealer_blackjack)
		VALUES (?, ?, ?, ?, ?, ?)`,
		result.SessionID, result.Creator, result.CompletedAt,
		result.DealerTotal, result.DealerBusted, result.DealerBlackjack,
	)
	if err != nil {
		return fmt.Errorf("error inserting round result: %w", err)
	}

	roundID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error getting round result id: %w", err)
	}

	for _, pr := range result.PlayerResults {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO player_results (round_result_id, name, result, total, payout)
			VALUES (?, ?, ?, ?, ?)`,
			roundID, pr.Name, string(pr.Result), pr.Total, pr.Payout,
		); err != nil {
			return fmt.Errorf("error inserting player result: %w", err)
		}
	}

	return tx.Commit()
}

// GetSessionResults retrieves recent results for a session, oldest first
func (r *SQLiteRepository) GetSessionResults(ctx context.Context, sessionID string, limit int) ([]*entities.RoundResult, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, creator, completed_at, dealer_total, dealer_busted, dealer_blackjack
		FROM round_results
		WHERE session_id = ?
		ORDER BY id DESC
		LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying round results: %w", err)
	}
	defer rows.Close()

	results, err := r.scanRounds(ctx, rows)
	if err != nil {
		return nil, err
	}

	// Query returned newest first; hand them back oldest first
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

// GetPlayerResults retrieves results for rounds the player took part in
func (r *SQLiteRepository) GetPlayerResults(ctx context.Context, name string) ([]*entities.RoundResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT rr.id, rr.session_id, rr.creator, rr.completed_at, rr.dealer_total, rr.dealer_busted, rr.dealer_blackjack
		FROM round_results rr
		JOIN player_results pr ON pr.round_result_id = rr.id
		WHERE LOWER(pr.name) = LOWER(?)
		ORDER BY rr.id ASC`, name)
	if err != nil {
		return nil, fmt.Errorf("error querying player results: %w", err)
	}
	defer rows.Close()

	return r.scanRounds(ctx, rows)
}

// scanRounds materializes round rows plus their player rows
func (r *SQLiteRepository) scanRounds(ctx context.Context, rows *sql.Rows) ([]*entities.RoundResult, error) {
	type roundRow struct {
		id     int64
		result *entities.RoundResult
	}

	var rounds []roundRow
	for rows.Next() {
		var rr roundRow
		rr.result = &entities.RoundResult{}
		if err := rows.Scan(
			&rr.id, &rr.result.SessionID, &rr.result.Creator, &rr.result.CompletedAt,
			&rr.result.DealerTotal, &rr.result.DealerBusted, &rr.result.DealerBlackjack,
		); err != nil {
			return nil, fmt.Errorf("error scanning round result: %w", err)
		}
		rounds = append(rounds, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	results := make([]*entities.RoundResult, 0, len(rounds))
	for _, rr := range rounds {
		playerRows, err := r.db.QueryContext(ctx, `
			SELECT name, result, total, payout
			FROM player_results
			WHERE round_result_id = ?
			ORDER BY id ASC`, rr.id)
		if err != nil {
			return nil, fmt.Errorf("error querying player results: %w", err)
		}

		for playerRows.Next() {
			pr := &entities.PlayerResult{}
			var result string
			if err := playerRows.Scan(&pr.Name, &result, &pr.Total, &pr.Payout); err != nil {
				playerRows.Close()
				return nil, fmt.Errorf("error scanning player result: %w", err)
			}
			pr.Result = entities.Result(result)
			rr.result.PlayerResults = append(rr.result.PlayerResults, pr)
		}
		playerRows.Close()
		if err := playerRows.Err(); err != nil {
			return nil, err
		}

		results = append(results, rr.result)
	}

	return results, nil
}

// Close closes the underlying database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
