// internal/history/store.go
package history

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"
)

// MaxEntriesPerEnvironment caps how much history each environment keeps.
const MaxEntriesPerEnvironment = 500

const selectColumns = `id, environment, entity, kind, query, executed_at, duration_ms, row_count, status, error_message, preview`

// Store manages query history persistence
type Store struct {
	db *sql.DB
}

// NewStore opens the history database in the XDG data directory
func NewStore() (*Store, error) {
	dbPath, err := xdg.DataFile("ezdv/history.db")
	if err != nil {
		return nil, err
	}
	return Open(dbPath)
}

// Open opens (and migrates) the history database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			environment TEXT NOT NULL,
			entity TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL DEFAULT 'guided',
			query TEXT NOT NULL,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			duration_ms INTEGER NOT NULL,
			row_count INTEGER NOT NULL,
			status TEXT NOT NULL,
			error_message TEXT,
			preview TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_history_environment ON history(environment);
		CREATE INDEX IF NOT EXISTS idx_history_executed_at ON history(executed_at);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	store := &Store{db: db}
	if err := store.cleanup(); err != nil {
		log.Printf("history cleanup failed: %v", err)
	}
	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts a new execution into history and prunes the environment
// down to MaxEntriesPerEnvironment.
func (s *Store) Add(ctx context.Context, entry *HistoryEntry) error {
	if entry.Kind == "" {
		entry.Kind = KindGuided
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO history (environment, entity, kind, query, executed_at, duration_ms, row_count, status, error_message, preview)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.Environment,
		entry.Entity,
		string(entry.Kind),
		entry.Query,
		entry.ExecutedAt,
		entry.DurationMs,
		entry.RowCount,
		entry.Status,
		entry.ErrorMessage,
		entry.Preview,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id

	return s.enforceLimit(ctx, entry.Environment, MaxEntriesPerEnvironment)
}

// enforceLimit keeps only the most recent N entries per environment
func (s *Store) enforceLimit(ctx context.Context, environment string, limit int) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM history
		WHERE environment = ?
		AND id NOT IN (
			SELECT id FROM history
			WHERE environment = ?
			ORDER BY executed_at DESC, id DESC
			LIMIT ?
		)
	`, environment, environment, limit)
	return err
}

// List returns paginated history entries for an environment, newest first
func (s *Store) List(ctx context.Context, environment string, limit, offset int) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM history
		WHERE environment = ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, environment, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search finds history entries whose query or entity contains term
func (s *Store) Search(ctx context.Context, environment, term string, limit int) ([]HistoryEntry, error) {
	like := "%" + term + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM history
		WHERE environment = ? AND (query LIKE ? OR entity LIKE ?)
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`, environment, like, like, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (HistoryEntry, error) {
	var e HistoryEntry
	var kind string
	var errMsg, preview sql.NullString
	err := row.Scan(&e.ID, &e.Environment, &e.Entity, &kind, &e.Query, &e.ExecutedAt,
		&e.DurationMs, &e.RowCount, &e.Status, &errMsg, &preview)
	e.Kind = Kind(kind)
	e.ErrorMessage = errMsg.String
	e.Preview = preview.String
	return e, err
}

// scanEntries scans rows into HistoryEntry slice
func scanEntries(rows *sql.Rows) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetByID retrieves a single history entry by ID. A missing id returns nil, nil.
func (s *Store) GetByID(ctx context.Context, id int64) (*HistoryEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM history WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete removes a history entry by ID
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE id = ?", id)
	return err
}

// cleanup removes history entries older than 90 days
func (s *Store) cleanup() error {
	_, err := s.db.Exec(`
		DELETE FROM history
		WHERE executed_at < datetime('now', '-90 days')
	`)
	return err
}

// Count returns the total number of history entries for an environment
func (s *Store) Count(ctx context.Context, environment string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM history WHERE environment = ?
	`, environment).Scan(&count)
	return count, err
}
