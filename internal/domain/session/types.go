// Package session implements the authentication lifecycle: bootstrap from a
// persisted credential, login/register, and logout. The session is either
// fully populated (user and credential) or fully absent, never half-set.
package session

import (
	"context"
	"errors"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrCredentialRejected is returned by the auth collaborator when the
	// backend refuses the bearer credential (401/403).
	ErrCredentialRejected = errors.New("credential rejected")

	// ErrRequestInFlight is returned when a login or register call is made
	// while a previous one has not resolved yet.
	ErrRequestInFlight = errors.New("authentication request already in flight")
)

// User is the authenticated-user view exposed to the rest of the app.
// The bearer credential is held in the credential store, never here.
type User struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// Status is the session lifecycle state.
type Status string

const (
	// StatusInitializing is the state before Bootstrap completes.
	// Entered exactly once at process start, never re-entered.
	StatusInitializing Status = "initializing"

	// StatusAnonymous means no user is signed in.
	StatusAnonymous Status = "anonymous"

	// StatusAuthenticated means a user is signed in and a credential
	// is persisted.
	StatusAuthenticated Status = "authenticated"
)

// AuthAPI is the external auth collaborator (the commerce backend).
// Login and Register return the user together with the issued bearer
// credential. Me validates the currently stored credential.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*User, string, error)
	Register(ctx context.Context, name, email, password string) (*User, string, error)
	Me(ctx context.Context) (*User, error)
}

// CredentialStore is the durable slot holding the bearer credential.
type CredentialStore interface {
	// Token returns the stored credential, or "" when absent.
	Token() string

	// SetToken persists a new credential.
	SetToken(token string) error

	// ClearToken removes the stored credential. Clearing an empty slot
	// is a no-op.
	ClearToken() error
}
