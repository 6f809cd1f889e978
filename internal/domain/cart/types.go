// Package cart implements the visitor's shopping cart: a set of line items
// with quantity aggregation and a derived total, persisted on every mutation.
package cart

import "errors"

// ErrInvalidLine is returned when an add request carries a non-positive
// product id, a negative price, or a negative quantity. The cart state is
// left unchanged.
var ErrInvalidLine = errors.New("invalid cart line")

// Line represents one product selected for purchase.
// At most one Line per product id exists in a cart at any time.
type Line struct {
	// ProductID is the backend's stable product identifier.
	ProductID int `json:"product_id"`

	// Name is the product display name.
	Name string `json:"name"`

	// Price is the unit price. Always >= 0.
	Price float64 `json:"price"`

	// Image is the product image reference.
	Image string `json:"image,omitempty"`

	// Quantity is the number of units. Always >= 1 for a stored line.
	// On Add, zero means "default to 1".
	Quantity int `json:"quantity"`
}

// Snapshot is a read-only view of the cart: an ordered copy of the lines
// plus the total, recomputed from the lines on every call.
type Snapshot struct {
	// Lines are the cart lines in insertion order.
	Lines []Line `json:"items"`

	// Total is sum over lines of (price * quantity).
	Total float64 `json:"total"`

	// Count is the total number of units across all lines.
	Count int `json:"count"`
}

// Persistence is the outbound port for the cart's durable copy.
// The store writes the full line set on every mutation and reads it once
// at construction, giving persistence across restarts.
type Persistence interface {
	LoadLines() ([]Line, error)
	SaveLines(lines []Line) error
}
