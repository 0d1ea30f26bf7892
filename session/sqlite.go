package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/tripgraph/planner"
)

// SQLiteStore persists sessions in a local SQLite database. States are
// stored as JSON text alongside an updated_at timestamp.
type SQLiteStore struct {
	db        *sql.DB
	tableName string
}

var _ Store = (*SQLiteStore)(nil)
var _ planner.SessionStore = (*SQLiteStore)(nil)

// SQLiteOptions configures a SQLiteStore.
type SQLiteOptions struct {
	// Path is the database file path, created if absent.
	Path string
	// TableName defaults to "trip_sessions".
	TableName string
}

// NewSQLiteStore opens (creating if needed) the database at the given path
// and ensures the sessions table exists.
func NewSQLiteStore(opts SQLiteOptions) (*SQLiteStore, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("sqlite store: path is required")
	}
	if opts.TableName == "" {
		opts.TableName = "trip_sessions"
	}

	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", opts.Path, err)
	}

	s := &SQLiteStore{db: db, tableName: opts.TableName}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, s.tableName)
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("sqlite store: create table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, id string, state planner.TripState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("sqlite store: marshal state: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		s.tableName)
	if _, err := s.db.ExecContext(ctx, query, id, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("sqlite store: save session %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (planner.TripState, error) {
	query := fmt.Sprintf(`SELECT state FROM %s WHERE id = ?`, s.tableName)

	var data string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&data)
	if err == sql.ErrNoRows {
		return planner.TripState{}, ErrNotFound
	}
	if err != nil {
		return planner.TripState{}, fmt.Errorf("sqlite store: load session %s: %w", id, err)
	}

	var state planner.TripState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return planner.TripState{}, fmt.Errorf("sqlite store: unmarshal session %s: %w", id, err)
	}
	return state, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("sqlite store: delete session %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT id FROM %s ORDER BY id`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite store: scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
