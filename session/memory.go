package session

import (
	"context"
	"sort"
	"sync"

	"github.com/smallnest/tripgraph/planner"
)

// MemoryStore keeps sessions in process memory. It is safe for concurrent
// use and is the default store for tests and short-lived CLI runs.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]planner.TripState
}

var _ Store = (*MemoryStore)(nil)
var _ planner.SessionStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]planner.TripState)}
}

func (m *MemoryStore) Save(_ context.Context, id string, state planner.TripState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = state
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (planner.TripState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.sessions[id]
	if !ok {
		return planner.TripState{}, ErrNotFound
	}
	return state, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
