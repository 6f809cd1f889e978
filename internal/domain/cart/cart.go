package cart

import (
	"fmt"
	"log/slog"
	"sync"
)

// Store is the single source of truth for the visitor's selected items.
// Mutations are applied in call order under one mutex; the in-memory line
// set stays authoritative even when the persistence write fails (the
// failure is logged, never surfaced to the caller).
type Store struct {
	mu      sync.Mutex
	lines   []Line
	persist Persistence
	logger  *slog.Logger
}

// NewStore creates a cart Store, loading any previously persisted lines.
// A load failure starts the cart empty rather than failing construction.
func NewStore(persist Persistence, logger *slog.Logger) *Store {
	s := &Store{
		persist: persist,
		logger:  logger,
	}

	lines, err := persist.LoadLines()
	if err != nil {
		logger.Warn("failed to load persisted cart, starting empty", "error", err)
		return s
	}
	s.lines = lines
	return s
}

// Add inserts a line or, when a line for the same product id already
// exists, increases its quantity by the requested amount. A zero quantity
// defaults to 1. A negative quantity, non-positive product id, or negative
// price is rejected with ErrInvalidLine and leaves the cart unchanged.
func (s *Store) Add(line Line) error {
	if line.ProductID <= 0 {
		return fmt.Errorf("%w: product id must be positive, got %d", ErrInvalidLine, line.ProductID)
	}
	if line.Price < 0 {
		return fmt.Errorf("%w: price must not be negative, got %v", ErrInvalidLine, line.Price)
	}
	if line.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative, got %d", ErrInvalidLine, line.Quantity)
	}
	if line.Quantity == 0 {
		line.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.lines {
		if s.lines[i].ProductID == line.ProductID {
			s.lines[i].Quantity += line.Quantity
			found = true
			break
		}
	}
	if !found {
		s.lines = append(s.lines, line)
	}

	s.persistLocked()
	return nil
}

// Remove deletes the line matching productID. Removing an absent product
// is a no-op, not an error.
func (s *Store) Remove(productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

// Clear empties all lines. Used after successful checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) == 0 {
		return
	}
	s.lines = nil
	s.persistLocked()
}

// Snapshot returns an ordered copy of the lines plus the total.
// The total is always recomputed, never cached.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Lines: make([]Line, len(s.lines)),
	}
	copy(snap.Lines, s.lines)
	for _, l := range s.lines {
		snap.Total += l.Price * float64(l.Quantity)
		snap.Count += l.Quantity
	}
	return snap
}

// persistLocked writes the current line set through the persistence port.
// Caller must hold s.mu. Failures are logged; the in-memory state is not
// rolled back.
func (s *Store) persistLocked() {
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	if err := s.persist.SaveLines(lines); err != nil {
		s.logger.Warn("failed to persist cart", "error", err, "lines", len(lines))
	}
}
