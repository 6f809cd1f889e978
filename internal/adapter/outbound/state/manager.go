package state

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopfront/shopfront/internal/domain/cart"
)

// Manager caches the ClientState in memory and exposes the narrow slices
// the domain stores consume: cart line persistence for the cart store and
// the credential slot for the session store and backend client. All
// mutations write through to the underlying Store.
type Manager struct {
	mu     sync.Mutex
	store  Store
	state  *ClientState
	logger *slog.Logger
}

// NewManager loads the current ClientState from store and returns a
// Manager wrapping it.
func NewManager(store Store, logger *slog.Logger) (*Manager, error) {
	st, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load client state: %w", err)
	}
	return &Manager{
		store:  store,
		state:  st,
		logger: logger,
	}, nil
}

// LoadLines returns the persisted cart lines.
func (m *Manager) LoadLines() ([]cart.Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := make([]cart.Line, len(m.state.CartLines))
	for i, e := range m.state.CartLines {
		lines[i] = cart.Line{
			ProductID: e.ProductID,
			Name:      e.Name,
			Price:     e.Price,
			Image:     e.Image,
			Quantity:  e.Quantity,
		}
	}
	return lines, nil
}

// SaveLines replaces the persisted cart lines and writes the record through.
func (m *Manager) SaveLines(lines []cart.Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]CartLineEntry, len(lines))
	for i, l := range lines {
		entries[i] = CartLineEntry{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Image:     l.Image,
			Quantity:  l.Quantity,
		}
	}
	m.state.CartLines = entries
	return m.save()
}

// Token returns the persisted bearer credential, or "" when absent.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Token
}

// SetToken persists a new bearer credential.
func (m *Manager) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Token = token
	return m.save()
}

// ClearToken removes the persisted bearer credential. Clearing an already
// empty slot is a no-op.
func (m *Manager) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Token == "" {
		return nil
	}
	m.state.Token = ""
	return m.save()
}

// save writes the cached state through to the backing store.
// Caller must hold m.mu.
func (m *Manager) save() error {
	if err := m.store.Save(m.state); err != nil {
		return fmt.Errorf("save client state: %w", err)
	}
	return nil
}

// Compile-time checks for the interfaces Manager serves.
var _ cart.Persistence = (*Manager)(nil)
