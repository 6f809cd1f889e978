package backend

import (
	"context"
	"net/http"

	"github.com/shopfront/shopfront/internal/domain/order"
	"github.com/shopfront/shopfront/internal/port/outbound"
)

// CreateOrder submits a draft order and returns the created order.
func (c *Client) CreateOrder(ctx context.Context, draft order.Draft) (*order.Order, error) {
	var created order.Order
	if err := c.doRequest(ctx, http.MethodPost, "/orders", draft, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListUserOrders returns the current user's order history.
func (c *Client) ListUserOrders(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	if err := c.doRequest(ctx, http.MethodGet, "/orders/user", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Compile-time check that Client implements the order port.
var _ outbound.OrderAPI = (*Client)(nil)
