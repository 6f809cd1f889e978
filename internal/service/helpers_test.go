package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/shopfront/shopfront/internal/domain/cart"
	"github.com/shopfront/shopfront/internal/domain/catalog"
	"github.com/shopfront/shopfront/internal/domain/order"
	"github.com/shopfront/shopfront/internal/domain/session"
	"github.com/shopfront/shopfront/internal/port/outbound"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// memCreds is an in-memory session.CredentialStore.
type memCreds struct{ token string }

func (c *memCreds) Token() string           { return c.token }
func (c *memCreds) SetToken(t string) error { c.token = t; return nil }
func (c *memCreds) ClearToken() error       { c.token = ""; return nil }

// scriptedAuth satisfies session.AuthAPI with fixed responses.
type scriptedAuth struct {
	user  *session.User
	token string
}

func (a *scriptedAuth) Login(context.Context, string, string) (*session.User, string, error) {
	return a.user, a.token, nil
}

func (a *scriptedAuth) Register(context.Context, string, string, string) (*session.User, string, error) {
	return a.user, a.token, nil
}

func (a *scriptedAuth) Me(context.Context) (*session.User, error) {
	return a.user, nil
}

// newSession returns a session Store signed in as user, or an anonymous
// store when user is nil.
func newSession(t *testing.T, user *session.User) *session.Store {
	t.Helper()
	auth := &scriptedAuth{user: user, token: "tok-test"}
	store := session.NewStore(auth, &memCreds{}, testLogger())
	store.Bootstrap(context.Background())
	if user != nil {
		if _, err := store.Login(context.Background(), user.Email, "pw"); err != nil {
			t.Fatalf("test login failed: %v", err)
		}
	}
	return store
}

// memPersistence is an in-memory cart.Persistence.
type memPersistence struct{ lines []cart.Line }

func (p *memPersistence) LoadLines() ([]cart.Line, error) { return p.lines, nil }
func (p *memPersistence) SaveLines(l []cart.Line) error   { p.lines = l; return nil }

// fakeOrderAPI records submitted drafts and returns scripted results.
type fakeOrderAPI struct {
	created   *order.Order
	createErr error
	drafts    []order.Draft
	orders    []order.Order
	listErr   error
}

func (f *fakeOrderAPI) CreateOrder(_ context.Context, draft order.Draft) (*order.Order, error) {
	f.drafts = append(f.drafts, draft)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeOrderAPI) ListUserOrders(context.Context) ([]order.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.orders, nil
}

// fakeCatalogAPI returns scripted products.
type fakeCatalogAPI struct {
	products []catalog.Product
	getErr   error
	listErr  error
}

func (f *fakeCatalogAPI) ListProducts(context.Context) ([]catalog.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeCatalogAPI) GetProduct(_ context.Context, id int) (*catalog.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, outbound.ErrNotFound
}

// fakeAdminAPI counts calls so tests can assert the local gate short-circuits.
type fakeAdminAPI struct {
	calls   int
	orders  []order.Order
	page    *outbound.UserPage
	product *catalog.Product
	user    *session.User
}

func (f *fakeAdminAPI) ListAllOrders(context.Context) ([]order.Order, error) {
	f.calls++
	return f.orders, nil
}

func (f *fakeAdminAPI) SetOrderStatus(_ context.Context, orderID int, status string) (*order.Order, error) {
	f.calls++
	return &order.Order{ID: orderID, Status: status}, nil
}

func (f *fakeAdminAPI) CreateProduct(_ context.Context, p catalog.Product) (*catalog.Product, error) {
	f.calls++
	if f.product != nil {
		return f.product, nil
	}
	return &p, nil
}

func (f *fakeAdminAPI) UpdateProduct(_ context.Context, p catalog.Product) (*catalog.Product, error) {
	f.calls++
	return &p, nil
}

func (f *fakeAdminAPI) DeleteProduct(context.Context, int) error {
	f.calls++
	return nil
}

func (f *fakeAdminAPI) ListUsers(context.Context, int, int, string) (*outbound.UserPage, error) {
	f.calls++
	if f.page != nil {
		return f.page, nil
	}
	return &outbound.UserPage{}, nil
}

func (f *fakeAdminAPI) SetAdminFlag(_ context.Context, userID int, isAdmin bool) (*session.User, error) {
	f.calls++
	if f.user != nil {
		return f.user, nil
	}
	return &session.User{ID: userID, IsAdmin: isAdmin}, nil
}
