// Package order defines order types exchanged with the commerce backend.
package order

import "time"

// Status values the backend accepts for an order.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is one of the accepted status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is a placed order as returned by the backend.
type Order struct {
	ID              int       `json:"id"`
	UserID          int       `json:"user_id"`
	Total           float64   `json:"total"`
	Status          string    `json:"status"`
	ShippingAddress string    `json:"shipping_address"`
	CreatedAt       time.Time `json:"created_at"`
	Items           []Item    `json:"items,omitempty"`
}

// Item is one line of a placed order.
type Item struct {
	ID        int     `json:"id,omitempty"`
	OrderID   int     `json:"order_id,omitempty"`
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Draft is the payload submitted to create an order.
type Draft struct {
	UserID          int     `json:"user_id"`
	Total           float64 `json:"total"`
	Status          string  `json:"status"`
	Items           []Item  `json:"items"`
	ShippingAddress string  `json:"shipping_address"`
}

// ShippingAddress is the structured address collected at checkout.
// The backend receives it joined into a single line.
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Format joins the address fields into the single-line form the backend
// stores: "address, city, postal_code, country".
func (a ShippingAddress) Format() string {
	return a.Address + ", " + a.City + ", " + a.PostalCode + ", " + a.Country
}
