package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopfront/shopfront/internal/domain/catalog"
	"github.com/shopfront/shopfront/internal/domain/order"
	"github.com/shopfront/shopfront/internal/domain/session"
	"github.com/shopfront/shopfront/internal/port/outbound"
)

// ListAllOrders returns every order in the system (admin only).
func (c *Client) ListAllOrders(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	if err := c.doRequest(ctx, http.MethodGet, "/admin/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SetOrderStatus updates one order's status and returns the updated order.
func (c *Client) SetOrderStatus(ctx context.Context, orderID int, status string) (*order.Order, error) {
	req := map[string]string{"status": status}
	var updated order.Order
	path := fmt.Sprintf("/admin/orders/%d/status", orderID)
	if err := c.doRequest(ctx, http.MethodPut, path, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CreateProduct adds a product to the catalog.
func (c *Client) CreateProduct(ctx context.Context, p catalog.Product) (*catalog.Product, error) {
	var created catalog.Product
	if err := c.doRequest(ctx, http.MethodPost, "/admin/products", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct replaces an existing product's fields.
func (c *Client) UpdateProduct(ctx context.Context, p catalog.Product) (*catalog.Product, error) {
	var updated catalog.Product
	path := fmt.Sprintf("/admin/products/%d", p.ID)
	if err := c.doRequest(ctx, http.MethodPut, path, p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product from the catalog.
func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	path := fmt.Sprintf("/admin/products/%d", id)
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// ListUsers returns one page of users matching search.
func (c *Client) ListUsers(ctx context.Context, page, limit int, search string) (*outbound.UserPage, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("limit", fmt.Sprintf("%d", limit))
	if search != "" {
		q.Set("search", search)
	}

	var result outbound.UserPage
	path := "/admin/users?" + q.Encode()
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetAdminFlag toggles a user's administrator flag.
func (c *Client) SetAdminFlag(ctx context.Context, userID int, isAdmin bool) (*session.User, error) {
	req := map[string]bool{"isAdmin": isAdmin}
	var updated session.User
	path := fmt.Sprintf("/admin/users/%d/admin", userID)
	if err := c.doRequest(ctx, http.MethodPut, path, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Compile-time check that Client implements the admin port.
var _ outbound.AdminAPI = (*Client)(nil)
