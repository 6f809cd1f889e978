package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopfront/shopfront/internal/domain/catalog"
	"github.com/shopfront/shopfront/internal/domain/order"
	"github.com/shopfront/shopfront/internal/domain/session"
	"github.com/shopfront/shopfront/internal/port/outbound"
)

// AdminService fronts the backend's admin console surface. Every operation
// is gated locally on the session's admin flag before any network call; the
// backend enforces the same rule server-side, the local gate just avoids a
// pointless round trip and gives the handler a clean forbidden error.
type AdminService struct {
	api     outbound.AdminAPI
	session *session.Store
	logger  *slog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(api outbound.AdminAPI, sessionStore *session.Store, logger *slog.Logger) *AdminService {
	return &AdminService{
		api:     api,
		session: sessionStore,
		logger:  logger,
	}
}

// requireAdmin refuses callers whose session lacks the admin flag.
func (s *AdminService) requireAdmin() error {
	_, status := s.session.Current()
	if status != session.StatusAuthenticated {
		return ErrNotAuthenticated
	}
	if !s.session.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// ListAllOrders returns every order in the system.
func (s *AdminService) ListAllOrders(ctx context.Context) ([]order.Order, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	orders, err := s.api.ListAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	if orders == nil {
		orders = []order.Order{}
	}
	return orders, nil
}

// SetOrderStatus moves an order to a new fulfillment status.
func (s *AdminService) SetOrderStatus(ctx context.Context, orderID int, status string) (*order.Order, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	if !order.ValidStatus(status) {
		return nil, fmt.Errorf("invalid order status %q", status)
	}
	updated, err := s.api.SetOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, fmt.Errorf("set order %d status: %w", orderID, err)
	}
	s.logger.Info("order status updated", "order_id", orderID, "status", status)
	return updated, nil
}

// CreateProduct adds a product to the catalog.
func (s *AdminService) CreateProduct(ctx context.Context, p catalog.Product) (*catalog.Product, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	created, err := s.api.CreateProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.logger.Info("product created", "product_id", created.ID, "name", created.Name)
	return created, nil
}

// UpdateProduct replaces an existing product's fields.
func (s *AdminService) UpdateProduct(ctx context.Context, p catalog.Product) (*catalog.Product, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	s.logger.Info("product updated", "product_id", p.ID)
	return updated, nil
}

// DeleteProduct removes a product from the catalog.
func (s *AdminService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	s.logger.Info("product deleted", "product_id", id)
	return nil
}

// ListUsers returns one page of users matching search. Page numbering
// starts at 1; out-of-range values are normalized rather than rejected.
func (s *AdminService) ListUsers(ctx context.Context, page, limit int, search string) (*outbound.UserPage, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	result, err := s.api.ListUsers(ctx, page, limit, search)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if result.Users == nil {
		result.Users = []session.User{}
	}
	return result, nil
}

// SetAdminFlag toggles another user's administrator flag.
func (s *AdminService) SetAdminFlag(ctx context.Context, userID int, isAdmin bool) (*session.User, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	updated, err := s.api.SetAdminFlag(ctx, userID, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("set admin flag for user %d: %w", userID, err)
	}
	s.logger.Info("admin flag updated", "user_id", userID, "is_admin", isAdmin)
	return updated, nil
}
