package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopfront/shopfront/internal/domain/cart"
	"github.com/shopfront/shopfront/internal/domain/catalog"
	"github.com/shopfront/shopfront/internal/domain/order"
	"github.com/shopfront/shopfront/internal/domain/session"
	"github.com/shopfront/shopfront/internal/port/outbound"
	"github.com/shopfront/shopfront/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- fakes for the outbound ports ---

type memCreds struct{ token string }

func (c *memCreds) Token() string           { return c.token }
func (c *memCreds) SetToken(t string) error { c.token = t; return nil }
func (c *memCreds) ClearToken() error       { c.token = ""; return nil }

type fakeAuth struct {
	user  *session.User
	token string
	err   error
}

func (a *fakeAuth) Login(context.Context, string, string) (*session.User, string, error) {
	if a.err != nil {
		return nil, "", a.err
	}
	return a.user, a.token, nil
}

func (a *fakeAuth) Register(context.Context, string, string, string) (*session.User, string, error) {
	if a.err != nil {
		return nil, "", a.err
	}
	return a.user, a.token, nil
}

func (a *fakeAuth) Me(context.Context) (*session.User, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.user, nil
}

type memPersistence struct{ lines []cart.Line }

func (p *memPersistence) LoadLines() ([]cart.Line, error) { return p.lines, nil }
func (p *memPersistence) SaveLines(l []cart.Line) error   { p.lines = l; return nil }

type fakeCatalog struct{ products []catalog.Product }

func (f *fakeCatalog) ListProducts(context.Context) ([]catalog.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int) (*catalog.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, outbound.ErrNotFound
}

type fakeOrders struct {
	created *order.Order
	orders  []order.Order
	drafts  []order.Draft
}

func (f *fakeOrders) CreateOrder(_ context.Context, d order.Draft) (*order.Order, error) {
	f.drafts = append(f.drafts, d)
	return f.created, nil
}

func (f *fakeOrders) ListUserOrders(context.Context) ([]order.Order, error) {
	return f.orders, nil
}

type fakeAdmin struct{ calls int }

func (f *fakeAdmin) ListAllOrders(context.Context) ([]order.Order, error) {
	f.calls++
	return []order.Order{{ID: 1}}, nil
}

func (f *fakeAdmin) SetOrderStatus(_ context.Context, id int, status string) (*order.Order, error) {
	f.calls++
	return &order.Order{ID: id, Status: status}, nil
}

func (f *fakeAdmin) CreateProduct(_ context.Context, p catalog.Product) (*catalog.Product, error) {
	f.calls++
	p.ID = 10
	return &p, nil
}

func (f *fakeAdmin) UpdateProduct(_ context.Context, p catalog.Product) (*catalog.Product, error) {
	f.calls++
	return &p, nil
}

func (f *fakeAdmin) DeleteProduct(context.Context, int) error {
	f.calls++
	return nil
}

func (f *fakeAdmin) ListUsers(context.Context, int, int, string) (*outbound.UserPage, error) {
	f.calls++
	return &outbound.UserPage{Users: []session.User{{ID: 7, Name: "Ada"}}, Total: 1}, nil
}

func (f *fakeAdmin) SetAdminFlag(_ context.Context, id int, isAdmin bool) (*session.User, error) {
	f.calls++
	return &session.User{ID: id, IsAdmin: isAdmin}, nil
}

// --- harness ---

type testEnv struct {
	handler    http.Handler
	apiHandler *Handler
	cart       *cart.Store
	session    *session.Store
	orders     *fakeOrders
}

// newTestEnv wires a full handler over fake outbound ports. user nil means
// anonymous.
func newTestEnv(t *testing.T, user *session.User) *testEnv {
	t.Helper()
	logger := testLogger()

	auth := &fakeAuth{user: user, token: "tok-test"}
	sess := session.NewStore(auth, &memCreds{}, logger)
	sess.Bootstrap(context.Background())
	if user != nil {
		if _, err := sess.Login(context.Background(), user.Email, "pw"); err != nil {
			t.Fatalf("test login: %v", err)
		}
	}

	cartStore := cart.NewStore(&memPersistence{}, logger)
	catalogAPI := &fakeCatalog{products: []catalog.Product{
		{ID: 1, Name: "Mug", Price: 9.5},
		{ID: 2, Name: "Poster", Price: 4},
	}}
	orders := &fakeOrders{created: &order.Order{ID: 41, Total: 23}}

	metrics := NewMetrics(prometheus.NewRegistry())
	h := NewHandler(
		service.NewCatalogService(catalogAPI, logger),
		cartStore,
		sess,
		service.NewCheckoutService(cartStore, sess, orders, logger),
		service.NewOrderService(orders, sess, logger),
		service.NewAdminService(&fakeAdmin{}, sess, logger),
		service.NewUploadService(t.TempDir(), 1<<20, sess, logger),
		metrics,
	)

	return &testEnv{
		handler:    h.Routes(),
		apiHandler: h,
		cart:       cartStore,
		session:    sess,
		orders:     orders,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

// --- products ---

func TestListProducts(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/products", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	products := decodeBody[[]catalog.Product](t, rec)
	if len(products) != 2 {
		t.Errorf("expected 2 products, got %d", len(products))
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("product list should carry an ETag")
	}
}

func TestListProducts_ConditionalRequest(t *testing.T) {
	env := newTestEnv(t, nil)

	first := env.do(t, http.MethodGet, "/api/products", nil)
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag on the first response")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Errorf("expected 304 for matching tag, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("304 must carry no body, got %q", rec.Body.String())
	}
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/products/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	product := decodeBody[catalog.Product](t, rec)
	if product.Name != "Mug" {
		t.Errorf("unexpected product: %+v", product)
	}
}

func TestGetProduct_UnknownID404(t *testing.T) {
	env := newTestEnv(t, nil)

	if rec := env.do(t, http.MethodGet, "/api/products/99", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/products/abc", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric id, got %d", rec.Code)
	}
}

// --- cart ---

func TestCart_AddAggregatesQuantity(t *testing.T) {
	env := newTestEnv(t, nil)

	line := map[string]any{"product_id": 1, "name": "Mug", "price": 9.5, "quantity": 2}
	if rec := env.do(t, http.MethodPost, "/api/cart/items", line); rec.Code != http.StatusOK {
		t.Fatalf("first add: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	line["quantity"] = 3
	rec := env.do(t, http.MethodPost, "/api/cart/items", line)
	if rec.Code != http.StatusOK {
		t.Fatalf("second add: expected 200, got %d", rec.Code)
	}

	snap := decodeBody[cart.Snapshot](t, rec)
	if len(snap.Lines) != 1 || snap.Lines[0].Quantity != 5 {
		t.Errorf("expected one line with quantity 5, got %+v", snap.Lines)
	}
	if snap.Total != 47.5 {
		t.Errorf("expected total 47.5, got %v", snap.Total)
	}
}

func TestCart_AddInvalidLineRejected(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/cart/items",
		map[string]any{"product_id": 1, "name": "Mug", "price": 9.5, "quantity": -1})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative quantity, got %d", rec.Code)
	}
	if snap := env.cart.Snapshot(); len(snap.Lines) != 0 {
		t.Errorf("rejected add must leave cart unchanged, got %+v", snap.Lines)
	}
}

func TestCart_MissingFieldsRejected(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/cart/items", map[string]any{"price": 9.5})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing fields, got %d", rec.Code)
	}
	resp := decodeBody[map[string]string](t, rec)
	if !strings.Contains(resp["error"], "ProductID") {
		t.Errorf("error should name the failing field, got %q", resp["error"])
	}
}

func TestCart_RemoveAndClear(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": 1, "name": "Mug", "price": 9.5})
	env.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": 2, "name": "Poster", "price": 4})

	rec := env.do(t, http.MethodDelete, "/api/cart/items/1", nil)
	snap := decodeBody[cart.Snapshot](t, rec)
	if len(snap.Lines) != 1 || snap.Lines[0].ProductID != 2 {
		t.Errorf("expected only product 2 after remove, got %+v", snap.Lines)
	}

	// Removing an absent product is a no-op.
	rec = env.do(t, http.MethodDelete, "/api/cart/items/99", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("remove absent: expected 200, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/cart", nil)
	snap = decodeBody[cart.Snapshot](t, rec)
	if len(snap.Lines) != 0 {
		t.Errorf("expected empty cart after clear, got %+v", snap.Lines)
	}
}

// --- checkout ---

func TestCheckoutEndpoint(t *testing.T) {
	env := newTestEnv(t, &session.User{ID: 7, Email: "ada@example.com"})
	env.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": 1, "name": "Mug", "price": 9.5, "quantity": 2})

	rec := env.do(t, http.MethodPost, "/api/checkout", map[string]string{
		"address": "1 Main St", "city": "Springfield", "postal_code": "12345", "country": "US",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[order.Order](t, rec)
	if created.ID != 41 {
		t.Errorf("unexpected order: %+v", created)
	}
	if snap := env.cart.Snapshot(); len(snap.Lines) != 0 {
		t.Errorf("cart should be empty after checkout, got %+v", snap.Lines)
	}
	if len(env.orders.drafts) != 1 || env.orders.drafts[0].UserID != 7 {
		t.Errorf("unexpected draft: %+v", env.orders.drafts)
	}
}

func TestCheckoutEndpoint_AnonymousRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": 1, "name": "Mug", "price": 9.5})

	rec := env.do(t, http.MethodPost, "/api/checkout", map[string]string{
		"address": "1 Main St", "city": "Springfield", "postal_code": "12345", "country": "US",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestCheckoutEndpoint_MissingAddressRejected(t *testing.T) {
	env := newTestEnv(t, &session.User{ID: 7})
	env.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": 1, "name": "Mug", "price": 9.5})

	rec := env.do(t, http.MethodPost, "/api/checkout", map[string]string{"address": "1 Main St"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for incomplete address, got %d", rec.Code)
	}
}

// --- auth ---

func TestAuthFlow(t *testing.T) {
	envAuth := newTestEnvWithAuth(t, &fakeAuth{user: &session.User{ID: 7, Name: "Ada", Email: "ada@example.com"}, token: "tok"})

	// Anonymous: me is 401.
	if rec := envAuth.do(t, http.MethodGet, "/api/auth/me", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", rec.Code)
	}

	rec := envAuth.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "ada@example.com", "password": "secret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[map[string]session.User](t, rec)
	if resp["user"].ID != 7 {
		t.Errorf("unexpected login response: %+v", resp)
	}

	if rec := envAuth.do(t, http.MethodGet, "/api/auth/me", nil); rec.Code != http.StatusOK {
		t.Errorf("me after login: expected 200, got %d", rec.Code)
	}

	if rec := envAuth.do(t, http.MethodPost, "/api/auth/logout", nil); rec.Code != http.StatusNoContent {
		t.Errorf("logout: expected 204, got %d", rec.Code)
	}
	if rec := envAuth.do(t, http.MethodGet, "/api/auth/me", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("me after logout: expected 401, got %d", rec.Code)
	}
	// Logout is idempotent.
	if rec := envAuth.do(t, http.MethodPost, "/api/auth/logout", nil); rec.Code != http.StatusNoContent {
		t.Errorf("second logout: expected 204, got %d", rec.Code)
	}
}

// newTestEnvWithAuth builds an env around a specific auth collaborator,
// starting anonymous.
func newTestEnvWithAuth(t *testing.T, auth *fakeAuth) *testEnv {
	t.Helper()
	logger := testLogger()

	sess := session.NewStore(auth, &memCreds{}, logger)
	sess.Bootstrap(context.Background())

	cartStore := cart.NewStore(&memPersistence{}, logger)
	orders := &fakeOrders{created: &order.Order{ID: 41}}
	metrics := NewMetrics(prometheus.NewRegistry())

	h := NewHandler(
		service.NewCatalogService(&fakeCatalog{}, logger),
		cartStore,
		sess,
		service.NewCheckoutService(cartStore, sess, orders, logger),
		service.NewOrderService(orders, sess, logger),
		service.NewAdminService(&fakeAdmin{}, sess, logger),
		service.NewUploadService(t.TempDir(), 1<<20, sess, logger),
		metrics,
	)
	return &testEnv{handler: h.Routes(), apiHandler: h, cart: cartStore, session: sess, orders: orders}
}

func TestRegister_InvalidPayloadRejected(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"name": "Ada", "password": "secret1"}},
		{"malformed email", map[string]string{"name": "Ada", "email": "nope", "password": "secret1"}},
		{"short password", map[string]string{"name": "Ada", "email": "ada@example.com", "password": "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := env.do(t, http.MethodPost, "/api/auth/register", tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

// --- orders ---

func TestListOrdersEndpoint(t *testing.T) {
	env := newTestEnv(t, &session.User{ID: 7})
	env.orders.orders = []order.Order{{ID: 2}, {ID: 1}}

	rec := env.do(t, http.MethodGet, "/api/orders", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	orders := decodeBody[[]order.Order](t, rec)
	if len(orders) != 2 {
		t.Errorf("expected 2 orders, got %d", len(orders))
	}
}

func TestListOrdersEndpoint_Anonymous401(t *testing.T) {
	env := newTestEnv(t, nil)
	if rec := env.do(t, http.MethodGet, "/api/orders", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

// --- admin ---

func TestAdminEndpoints_ForbiddenForNonAdmins(t *testing.T) {
	env := newTestEnv(t, &session.User{ID: 7}) // signed in, not admin

	paths := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/admin/orders", nil},
		{http.MethodPut, "/api/admin/orders/1/status", map[string]string{"status": "shipped"}},
		{http.MethodPost, "/api/admin/products", map[string]any{"name": "Mug", "price": 9.5}},
		{http.MethodDelete, "/api/admin/products/1", nil},
		{http.MethodGet, "/api/admin/users", nil},
		{http.MethodPut, "/api/admin/users/7/admin", map[string]bool{"isAdmin": true}},
	}
	for _, p := range paths {
		if rec := env.do(t, p.method, p.path, p.body); rec.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected 403, got %d", p.method, p.path, rec.Code)
		}
	}
}

func TestAdminEndpoints(t *testing.T) {
	env := newTestEnv(t, &session.User{ID: 1, IsAdmin: true})

	rec := env.do(t, http.MethodGet, "/api/admin/orders", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list orders: expected 200, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPut, "/api/admin/orders/41/status", map[string]string{"status": "shipped"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set status: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[order.Order](t, rec)
	if updated.Status != "shipped" {
		t.Errorf("unexpected status: %q", updated.Status)
	}

	rec = env.do(t, http.MethodPost, "/api/admin/products", map[string]any{"name": "Lamp", "price": 19.99})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPut, "/api/admin/products/10", map[string]any{"name": "Big Lamp", "price": 29.99})
	if rec.Code != http.StatusOK {
		t.Fatalf("update product: expected 200, got %d", rec.Code)
	}

	if rec := env.do(t, http.MethodDelete, "/api/admin/products/10", nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete product: expected 204, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/admin/users?page=1&limit=10&search=ada", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list users: expected 200, got %d", rec.Code)
	}
	page := decodeBody[outbound.UserPage](t, rec)
	if page.Total != 1 || len(page.Users) != 1 {
		t.Errorf("unexpected page: %+v", page)
	}

	rec = env.do(t, http.MethodPut, "/api/admin/users/7/admin", map[string]bool{"isAdmin": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("set admin flag: expected 200, got %d", rec.Code)
	}
	user := decodeBody[session.User](t, rec)
	if !user.IsAdmin {
		t.Errorf("expected is_admin true, got %+v", user)
	}
}

// --- upload ---

func TestUploadEndpoint(t *testing.T) {
	env := newTestEnv(t, &session.User{ID: 1, IsAdmin: true})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "product.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fmt.Fprint(fw, "fake image bytes")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[map[string]string](t, rec)
	if !strings.HasPrefix(resp["url"], "/images/") {
		t.Errorf("unexpected url: %q", resp["url"])
	}
}

func TestUploadEndpoint_AnonymousRejected(t *testing.T) {
	env := newTestEnv(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("image", "product.png")
	fmt.Fprint(fw, "x")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
