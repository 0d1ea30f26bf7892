package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/tripgraph/planner"
)

// DBPool abstracts the pgx pool so tests can substitute a mock.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore persists sessions in Postgres with the state as JSONB.
type PostgresStore struct {
	pool      DBPool
	tableName string
}

var _ Store = (*PostgresStore)(nil)
var _ planner.SessionStore = (*PostgresStore)(nil)

// PostgresOptions configures a PostgresStore.
type PostgresOptions struct {
	// ConnString is a pgx connection string or URL.
	ConnString string
	// TableName defaults to "trip_sessions".
	TableName string
}

// NewPostgresStore connects to Postgres and ensures the sessions table exists.
func NewPostgresStore(ctx context.Context, opts PostgresOptions) (*PostgresStore, error) {
	if opts.ConnString == "" {
		return nil, fmt.Errorf("postgres store: connection string is required")
	}

	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("postgres store: connect: %w", err)
	}

	s := NewPostgresStoreWithPool(pool, opts.TableName)
	if err := s.InitSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStoreWithPool wraps an existing pool without touching the
// schema, mainly for tests. InitSchema must be called separately.
func NewPostgresStoreWithPool(pool DBPool, tableName string) *PostgresStore {
	if tableName == "" {
		tableName = "trip_sessions"
	}
	return &PostgresStore{pool: pool, tableName: tableName}
}

// InitSchema creates the sessions table if it does not exist.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			state JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.tableName)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("postgres store: create table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, id string, state planner.TripState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("postgres store: marshal state: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, state, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state, updated_at = now()`,
		s.tableName)
	if _, err := s.pool.Exec(ctx, query, id, data); err != nil {
		return fmt.Errorf("postgres store: save session %s: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, id string) (planner.TripState, error) {
	query := fmt.Sprintf(`SELECT state FROM %s WHERE id = $1`, s.tableName)

	var data []byte
	err := s.pool.QueryRow(ctx, query, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return planner.TripState{}, ErrNotFound
	}
	if err != nil {
		return planner.TripState{}, fmt.Errorf("postgres store: load session %s: %w", id, err)
	}

	var state planner.TripState
	if err := json.Unmarshal(data, &state); err != nil {
		return planner.TripState{}, fmt.Errorf("postgres store: unmarshal session %s: %w", id, err)
	}
	return state, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.tableName)
	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("postgres store: delete session %s: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT id FROM %s ORDER BY id`, s.tableName)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres store: list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres store: scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the underlying pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
