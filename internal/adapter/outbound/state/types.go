// Package state provides durable persistence for Shopfront client state.
//
// A single ClientState record holds everything that must survive a restart:
// the bearer credential issued by the commerce backend and the cart lines the
// visitor has selected. Three backends are available: a JSON file with atomic
// writes and file locking, a SQLite database, and Redis.
package state

import "time"

// ClientState is the top-level record persisted by every backend.
// It is the durable half of the cart and session stores.
type ClientState struct {
	// Version is the schema version for forward compatibility. Currently "1".
	Version string `json:"version"`

	// Token is the bearer credential issued by the backend on login/register.
	// Empty string means no credential is stored.
	Token string `json:"token,omitempty"`

	// CartLines are the visitor's selected items, one entry per product.
	CartLines []CartLineEntry `json:"cart_lines"`

	// CreatedAt is when this record was first created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when this record was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// CartLineEntry is the persisted form of one cart line.
type CartLineEntry struct {
	// ProductID is the backend's stable product identifier.
	ProductID int `json:"product_id"`

	// Name is the display name captured at add time.
	Name string `json:"name"`

	// Price is the unit price captured at add time.
	Price float64 `json:"price"`

	// Image is the product image reference.
	Image string `json:"image,omitempty"`

	// Quantity is the number of units selected. Always >= 1.
	Quantity int `json:"quantity"`
}

// Store is the persistence contract shared by all state backends.
type Store interface {
	// Load reads the current ClientState. Backends return a fresh default
	// record (never an error) when nothing has been persisted yet.
	Load() (*ClientState, error)

	// Save persists the ClientState, replacing any previous record.
	Save(state *ClientState) error
}

// DefaultState returns a new empty ClientState.
func DefaultState() *ClientState {
	now := time.Now().UTC()
	return &ClientState{
		Version:   "1",
		CartLines: []CartLineEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
