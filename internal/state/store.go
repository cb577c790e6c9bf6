package state

import (
	"sync"

	"github.com/civic-report/civic-report-service/internal/domain"
)

// Listener observes the aggregate after each transition.
type Listener func(domain.AppState)

// Store owns the aggregate state. Every transition is
// read-whole-state / compute-whole-new-state / replace, serialized under one
// lock, so transitions never interleave. The store is handed explicitly to
// its consumers; there is no package-level instance.
type Store struct {
	mu        sync.Mutex
	current   domain.AppState
	listeners []Listener
}

// NewStore creates a store seeded with the given aggregate.
func NewStore(initial domain.AppState) *Store {
	return &Store{current: Clone(initial)}
}

// Dispatch applies an action and returns the resulting state. Listeners run
// synchronously before the next action is admitted.
func (st *Store) Dispatch(action Action) domain.AppState {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.current = Apply(st.current, action)
	snapshot := Clone(st.current)
	for _, listener := range st.listeners {
		listener(snapshot)
	}
	return snapshot
}

// State returns a copy of the current aggregate for reading.
func (st *Store) State() domain.AppState {
	st.mu.Lock()
	defer st.mu.Unlock()
	return Clone(st.current)
}

// Subscribe registers a listener for state changes. Not safe to call
// concurrently with Dispatch; wire listeners during startup.
func (st *Store) Subscribe(listener Listener) {
	st.listeners = append(st.listeners, listener)
}
