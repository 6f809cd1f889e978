// Package catalog defines the product types served by the commerce backend.
package catalog

// Product is a sellable item as returned by the backend.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}
