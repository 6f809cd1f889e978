// Package memory provides in-memory outbound adapters, used as defaults
// in tests and anywhere durability is not required.
package memory

import (
	"sync"

	"github.com/shopfront/shopfront/internal/adapter/outbound/state"
)

// ClientStateStore is an in-memory implementation of state.Store.
// State does not survive a restart; tests use it to avoid touching disk.
type ClientStateStore struct {
	mu    sync.Mutex
	state *state.ClientState
}

// NewClientStateStore creates an empty in-memory state store.
func NewClientStateStore() *ClientStateStore {
	return &ClientStateStore{}
}

// Load returns a copy of the held state, or a default record when nothing
// has been saved yet.
func (s *ClientStateStore) Load() (*state.ClientState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return state.DefaultState(), nil
	}
	cp := *s.state
	cp.CartLines = append([]state.CartLineEntry(nil), s.state.CartLines...)
	return &cp, nil
}

// Save stores a copy of the given state.
func (s *ClientStateStore) Save(st *state.ClientState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *st
	cp.CartLines = append([]state.CartLineEntry(nil), st.CartLines...)
	s.state = &cp
	return nil
}

// Compile-time check that ClientStateStore implements the Store interface.
var _ state.Store = (*ClientStateStore)(nil)
