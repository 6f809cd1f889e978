package backend

import (
	"fmt"
	"net/http"

	"github.com/shopfront/shopfront/internal/domain/session"
	"github.com/shopfront/shopfront/internal/port/outbound"
)

// ErrNotFound is returned when the backend responds 404, e.g. a product id
// that does not resolve. Use with errors.Is().
var ErrNotFound = outbound.ErrNotFound

// APIError is returned for any non-2xx backend response.
// It supports errors.Is against ErrNotFound (404) and
// session.ErrCredentialRejected (401/403).
type APIError struct {
	// Status is the HTTP status code the backend returned.
	Status int
	// Body is the raw response body, useful for user-facing messages.
	Body string
}

// Error returns a human-readable description of the backend failure.
func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Is reports whether this error matches the target sentinel.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case session.ErrCredentialRejected:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}
