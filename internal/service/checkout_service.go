package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopfront/shopfront/internal/domain/cart"
	"github.com/shopfront/shopfront/internal/domain/order"
	"github.com/shopfront/shopfront/internal/domain/session"
	"github.com/shopfront/shopfront/internal/port/outbound"
)

// CheckoutService turns the current cart into an order.
//
// Checkout requires an authenticated session. The order payload is built
// from the cart snapshot (backend recomputes nothing on our behalf), and the
// cart is cleared only after the backend accepts the order. A second
// submission while one is awaiting the backend is rejected with
// ErrCheckoutInFlight rather than queued.
type CheckoutService struct {
	cart    *cart.Store
	session *session.Store
	orders  outbound.OrderAPI
	logger  *slog.Logger

	mu       sync.Mutex
	inFlight bool
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(cartStore *cart.Store, sessionStore *session.Store, orders outbound.OrderAPI, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		cart:    cartStore,
		session: sessionStore,
		orders:  orders,
		logger:  logger,
	}
}

// Checkout submits the current cart as a pending order to the backend.
// On success the cart is cleared and the created order returned.
func (s *CheckoutService) Checkout(ctx context.Context, addr order.ShippingAddress) (*order.Order, error) {
	user, status := s.session.Current()
	if status != session.StatusAuthenticated {
		return nil, ErrNotAuthenticated
	}

	snapshot := s.cart.Snapshot()
	if len(snapshot.Lines) == 0 {
		return nil, ErrCartEmpty
	}

	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	items := make([]order.Item, len(snapshot.Lines))
	for i, line := range snapshot.Lines {
		items[i] = order.Item{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		}
	}

	draft := order.Draft{
		UserID:          user.ID,
		Total:           snapshot.Total,
		Status:          order.StatusPending,
		Items:           items,
		ShippingAddress: addr.Format(),
	}

	created, err := s.orders.CreateOrder(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// The cart survives a failed checkout; only an accepted order empties it.
	s.cart.Clear()

	s.logger.Info("order placed", "order_id", created.ID, "total", created.Total, "items", len(items))
	return created, nil
}

func (s *CheckoutService) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrCheckoutInFlight
	}
	s.inFlight = true
	return nil
}

func (s *CheckoutService) release() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}
