package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

// SQLiteStateStore persists the ClientState in a single-row SQLite table.
// The record is stored as a JSON payload so the schema never needs a
// migration when ClientState grows a field.
type SQLiteStateStore struct {
	db     *sql.DB
	logger *slog.Logger
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS client_state (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// NewSQLiteStateStore opens (or creates) the SQLite database at path and
// ensures the client_state table exists.
func NewSQLiteStateStore(path string, logger *slog.Logger) (*SQLiteStateStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// A single writer keeps the single-row table simple.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create client_state table: %w", err)
	}

	return &SQLiteStateStore{db: db, logger: logger}, nil
}

// Load reads the ClientState row. Returns DefaultState() when the table
// is empty (fresh database).
func (s *SQLiteStateStore) Load() (*ClientState, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM client_state WHERE id = 1").Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Info("no state row found, using default state")
		return DefaultState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("query state row: %w", err)
	}

	var state ClientState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, fmt.Errorf("parse state payload: %w", err)
	}
	return &state, nil
}

// Save upserts the ClientState row.
func (s *SQLiteStateStore) Save(state *ClientState) error {
	state.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO client_state (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(payload), state.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert state row: %w", err)
	}

	s.logger.Debug("state saved", "backend", "sqlite")
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStateStore) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteStateStore implements the Store interface.
var _ Store = (*SQLiteStateStore)(nil)
