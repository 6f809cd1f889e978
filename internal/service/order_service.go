package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopfront/shopfront/internal/domain/order"
	"github.com/shopfront/shopfront/internal/domain/session"
	"github.com/shopfront/shopfront/internal/port/outbound"
)

// OrderService reads the signed-in user's order history.
type OrderService struct {
	api     outbound.OrderAPI
	session *session.Store
	logger  *slog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(api outbound.OrderAPI, sessionStore *session.Store, logger *slog.Logger) *OrderService {
	return &OrderService{
		api:     api,
		session: sessionStore,
		logger:  logger,
	}
}

// ListUserOrders returns the current user's order history, newest first per
// the backend's ordering.
func (s *OrderService) ListUserOrders(ctx context.Context) ([]order.Order, error) {
	if _, status := s.session.Current(); status != session.StatusAuthenticated {
		return nil, ErrNotAuthenticated
	}

	orders, err := s.api.ListUserOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	if orders == nil {
		orders = []order.Order{}
	}
	return orders, nil
}
