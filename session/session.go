// Package session persists TripState between runs, keyed by an opaque
// session ID, so a follow-up query can resume a prior trip. Four backends
// are provided: in-memory, SQLite, Redis and Postgres. All of them satisfy
// planner.SessionStore.
package session

import (
	"context"
	"errors"

	"github.com/smallnest/tripgraph/planner"
)

// ErrNotFound is returned when no session exists for the given ID.
var ErrNotFound = errors.New("session not found")

// Store persists trip states keyed by session ID.
type Store interface {
	// Save stores or replaces the state for the session.
	Save(ctx context.Context, id string, state planner.TripState) error

	// Load retrieves the state for the session, or ErrNotFound.
	Load(ctx context.Context, id string) (planner.TripState, error)

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
