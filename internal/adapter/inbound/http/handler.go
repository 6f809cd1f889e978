package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/shopfront/shopfront/internal/adapter/outbound/backend"
	"github.com/shopfront/shopfront/internal/domain/cart"
	"github.com/shopfront/shopfront/internal/domain/catalog"
	"github.com/shopfront/shopfront/internal/domain/order"
	"github.com/shopfront/shopfront/internal/domain/session"
	"github.com/shopfront/shopfront/internal/port/outbound"
	"github.com/shopfront/shopfront/internal/service"
)

// maxRequestBodySize is the maximum allowed JSON request body size (1 MB).
const maxRequestBodySize = 1 << 20

// validate is the shared request payload validator.
var validate = validator.New()

// Handler routes the storefront API. One instance serves all requests.
type Handler struct {
	catalog  *service.CatalogService
	cart     *cart.Store
	session  *session.Store
	checkout *service.CheckoutService
	orders   *service.OrderService
	admin    *service.AdminService
	uploads  *service.UploadService
	metrics  *Metrics
}

// NewHandler creates the storefront API handler.
func NewHandler(
	catalogSvc *service.CatalogService,
	cartStore *cart.Store,
	sessionStore *session.Store,
	checkoutSvc *service.CheckoutService,
	orderSvc *service.OrderService,
	adminSvc *service.AdminService,
	uploadSvc *service.UploadService,
	metrics *Metrics,
) *Handler {
	return &Handler{
		catalog:  catalogSvc,
		cart:     cartStore,
		session:  sessionStore,
		checkout: checkoutSvc,
		orders:   orderSvc,
		admin:    adminSvc,
		uploads:  uploadSvc,
		metrics:  metrics,
	}
}

// Routes returns the API route table.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/items", h.addCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{productID}", h.removeCartItem)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)

	mux.HandleFunc("POST /api/checkout", h.placeOrder)
	mux.HandleFunc("GET /api/orders", h.listOrders)

	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)
	mux.HandleFunc("POST /api/auth/logout", h.logout)
	mux.HandleFunc("GET /api/auth/me", h.me)

	mux.HandleFunc("GET /api/admin/orders", h.adminListOrders)
	mux.HandleFunc("PUT /api/admin/orders/{id}/status", h.adminSetOrderStatus)
	mux.HandleFunc("POST /api/admin/products", h.adminCreateProduct)
	mux.HandleFunc("PUT /api/admin/products/{id}", h.adminUpdateProduct)
	mux.HandleFunc("DELETE /api/admin/products/{id}", h.adminDeleteProduct)
	mux.HandleFunc("GET /api/admin/users", h.adminListUsers)
	mux.HandleFunc("PUT /api/admin/users/{id}/admin", h.adminSetAdminFlag)

	mux.HandleFunc("POST /api/upload", h.upload)

	return mux
}

// --- products ---

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSONWithETag(w, r, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// --- cart ---

// addCartItemRequest is the payload for POST /api/cart/items.
type addCartItemRequest struct {
	ProductID int     `json:"product_id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	respondJSONWithETag(w, r, http.StatusOK, h.cart.Snapshot())
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	err := h.cart.Add(cart.Line{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Image:     req.Image,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	snap := h.cart.Snapshot()
	h.metrics.CartItems.Set(float64(snap.Count))
	respondJSON(w, http.StatusOK, snap)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := pathInt(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	h.cart.Remove(productID)
	snap := h.cart.Snapshot()
	h.metrics.CartItems.Set(float64(snap.Count))
	respondJSON(w, http.StatusOK, snap)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	h.metrics.CartItems.Set(0)
	respondJSON(w, http.StatusOK, h.cart.Snapshot())
}

// --- checkout and orders ---

// checkoutRequest is the payload for POST /api/checkout.
type checkoutRequest struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	created, err := h.checkout.Checkout(r.Context(), order.ShippingAddress{
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.metrics.CheckoutsTotal.Inc()
	h.metrics.CartItems.Set(0)
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListUserOrders(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// --- auth ---

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// sessionResponse is the reply for register, login and me.
type sessionResponse struct {
	User *session.User `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.session.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, sessionResponse{User: user})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{User: user})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, status := h.session.Current()
	if status != session.StatusAuthenticated {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{User: user})
}

// --- admin ---

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type productRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

type adminFlagRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

func (h *Handler) adminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.admin.ListAllOrders(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) adminSetOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req orderStatusRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.admin.SetOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) adminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	created, err := h.admin.CreateProduct(r.Context(), catalog.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) adminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req productRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.admin.UpdateProduct(r.Context(), catalog.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) adminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.admin.DeleteProduct(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adminListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.admin.ListUsers(r.Context(), page, limit, q.Get("search"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) adminSetAdminFlag(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req adminFlagRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.admin.SetAdminFlag(r.Context(), id, req.IsAdmin)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// --- upload ---

// uploadResponse is the reply for POST /api/upload.
type uploadResponse struct {
	URL string `json:"url"`
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes()+(64<<10))
	if err := r.ParseMultipartForm(h.uploads.MaxBytes()); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.uploads.Save(header.Filename, file)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, uploadResponse{URL: url})
}

// --- helpers ---

// errorResponse is the JSON body for every non-2xx API reply.
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads and validates a JSON request body into dst. On failure it
// writes the error response and returns false.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer func() { _ = r.Body.Close() }()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if len(body) == 0 {
		respondError(w, http.StatusBadRequest, "empty request body")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, formatValidationError(err))
		return false
	}
	return true
}

// formatValidationError renders validator failures as one readable line.
func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	msg := "invalid request:"
	for i, fe := range verrs {
		if i > 0 {
			msg += ";"
		}
		msg += fmt.Sprintf(" field %s failed %s", fe.Field(), fe.Tag())
	}
	return msg
}

// respondError maps a service or domain error to an HTTP status. Each call
// site maps its own error; one failing fetch never fails its neighbors.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	logger := LoggerFromContext(r.Context())

	switch {
	case errors.Is(err, cart.ErrInvalidLine),
		errors.Is(err, service.ErrCartEmpty),
		errors.Is(err, service.ErrUnsupportedFileType):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotAuthenticated),
		errors.Is(err, session.ErrCredentialRejected):
		respondError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "admin access required")
	case errors.Is(err, outbound.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrCheckoutInFlight),
		errors.Is(err, session.ErrRequestInFlight):
		respondError(w, http.StatusConflict, err.Error())
	default:
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			// Relay the backend's verdict (e.g. duplicate email on register).
			logger.Warn("backend request failed", "status", apiErr.Status, "error", apiErr.Body)
			respondError(w, apiErr.Status, apiErr.Body)
			return
		}
		logger.Error("request failed", "error", err)
		respondError(w, http.StatusBadGateway, "backend unavailable")
	}
}

// pathInt parses an integer path segment.
func pathInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(r.PathValue(name))
}
