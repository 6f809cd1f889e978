package service

import "errors"

// Service-level errors. Handlers map these to HTTP status codes.
var (
	// ErrNotAuthenticated is returned when an operation requires a
	// signed-in user and the session is anonymous.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrForbidden is returned when the session user lacks the admin flag.
	ErrForbidden = errors.New("forbidden")

	// ErrCartEmpty is returned when checkout is attempted on an empty cart.
	ErrCartEmpty = errors.New("cart is empty")

	// ErrCheckoutInFlight is returned when a checkout is submitted while a
	// previous one is still awaiting the backend.
	ErrCheckoutInFlight = errors.New("checkout already in flight")
)
