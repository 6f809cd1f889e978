// Package outbound defines the interfaces for external collaborators.
// Implementations live in internal/adapter/outbound.
package outbound

import (
	"context"
	"errors"

	"github.com/shopfront/shopfront/internal/domain/catalog"
	"github.com/shopfront/shopfront/internal/domain/order"
	"github.com/shopfront/shopfront/internal/domain/session"
)

// ErrNotFound matches backend responses for resources that do not resolve,
// e.g. an unknown product id. Use with errors.Is().
var ErrNotFound = errors.New("not found")

// CatalogAPI reads products from the commerce backend.
type CatalogAPI interface {
	// ListProducts returns all products.
	ListProducts(ctx context.Context) ([]catalog.Product, error)

	// GetProduct returns one product by id.
	// Returns an error matching ErrNotFound for unknown ids.
	GetProduct(ctx context.Context, id int) (*catalog.Product, error)
}

// OrderAPI places and reads orders for the signed-in user.
type OrderAPI interface {
	// CreateOrder submits a draft order and returns the created order.
	CreateOrder(ctx context.Context, draft order.Draft) (*order.Order, error)

	// ListUserOrders returns the current user's order history.
	ListUserOrders(ctx context.Context) ([]order.Order, error)
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users []session.User `json:"users"`
	Total int            `json:"total"`
}

// AdminAPI is the backend's admin console surface. The backend enforces
// authorization; callers gate locally on the session's admin flag first.
type AdminAPI interface {
	ListAllOrders(ctx context.Context) ([]order.Order, error)
	SetOrderStatus(ctx context.Context, orderID int, status string) (*order.Order, error)

	CreateProduct(ctx context.Context, p catalog.Product) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, p catalog.Product) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id int) error

	// ListUsers returns a page of users matching search, page numbering
	// starts at 1.
	ListUsers(ctx context.Context, page, limit int, search string) (*UserPage, error)
	SetAdminFlag(ctx context.Context, userID int, isAdmin bool) (*session.User, error)
}
