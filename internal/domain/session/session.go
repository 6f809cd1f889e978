package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Store owns the authentication lifecycle and exposes the current identity.
// It mediates all three transitions: bootstrap, login/register, logout.
// Constructed once at application root and injected into consumers.
type Store struct {
	mu       sync.Mutex
	status   Status
	user     *User
	inFlight bool

	api    AuthAPI
	creds  CredentialStore
	logger *slog.Logger
}

// NewStore creates a session Store in the Initializing state.
// Call Bootstrap once before serving requests.
func NewStore(api AuthAPI, creds CredentialStore, logger *slog.Logger) *Store {
	return &Store{
		status: StatusInitializing,
		api:    api,
		creds:  creds,
		logger: logger,
	}
}

// Bootstrap resolves the initial session state from the persisted
// credential. With no stored credential it resolves to Anonymous without
// any network call. With a credential it validates it against the backend:
// success populates the session, a credential rejection clears the stale
// token, and any other failure keeps the token for a later retry. Failures
// are never surfaced; an expired token must not block startup. Calling
// Bootstrap after the first run is a no-op.
func (s *Store) Bootstrap(ctx context.Context) {
	s.mu.Lock()
	if s.status != StatusInitializing {
		s.mu.Unlock()
		return
	}
	token := s.creds.Token()
	if token == "" {
		s.status = StatusAnonymous
		s.mu.Unlock()
		s.logger.Debug("no stored credential, starting anonymous")
		return
	}
	s.mu.Unlock()

	user, err := s.api.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if errors.Is(err, ErrCredentialRejected) {
			// Stale token: clear it so the next start skips the network call.
			if clearErr := s.creds.ClearToken(); clearErr != nil {
				s.logger.Warn("failed to clear rejected credential", "error", clearErr)
			}
			s.logger.Info("stored credential rejected, starting anonymous")
		} else {
			// Transport failure: keep the token, it may still be valid.
			s.logger.Warn("identity check failed, starting anonymous", "error", err)
		}
		s.status = StatusAnonymous
		return
	}

	s.user = user
	s.status = StatusAuthenticated
	s.logger.Info("session restored", "user_id", user.ID, "email", user.Email)
}

// Login authenticates with email and password. On success the issued
// credential is persisted and the in-memory user set under one lock, so
// there is no window where one is set without the other. On failure the
// prior session state is untouched and the error is returned for display.
// A second call while one is in flight is rejected with ErrRequestInFlight.
func (s *Store) Login(ctx context.Context, email, password string) (*User, error) {
	release, err := s.acquireInFlight()
	if err != nil {
		return nil, err
	}
	defer release()

	user, token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return s.commit(user, token)
}

// Register creates a new account. Semantics match Login: atomic
// user+credential set on success, no partial mutation on failure, and an
// in-flight guard against double submission.
func (s *Store) Register(ctx context.Context, name, email, password string) (*User, error) {
	release, err := s.acquireInFlight()
	if err != nil {
		return nil, err
	}
	defer release()

	user, token, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}

	return s.commit(user, token)
}

// Logout clears the in-memory user and the persisted credential.
// Idempotent: logging out while anonymous is a no-op.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.status = StatusAnonymous
	if err := s.creds.ClearToken(); err != nil {
		s.logger.Warn("failed to clear credential on logout", "error", err)
	}
}

// Current returns the signed-in user (nil when anonymous) and the
// lifecycle status.
func (s *Store) Current() (*User, Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.status
}

// IsAdmin reports whether the signed-in user carries the admin flag.
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.IsAdmin
}

// acquireInFlight marks an auth request as in flight, rejecting concurrent
// submissions. The returned release func must be deferred.
func (s *Store) acquireInFlight() (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return nil, ErrRequestInFlight
	}
	s.inFlight = true
	return func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}, nil
}

// commit persists the credential and sets the user as one atomic pair.
// If the credential cannot be persisted, the user is not set either and
// the prior state remains.
func (s *Store) commit(user *User, token string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.creds.SetToken(token); err != nil {
		return nil, fmt.Errorf("persist credential: %w", err)
	}
	s.user = user
	s.status = StatusAuthenticated
	s.logger.Info("session established", "user_id", user.ID, "email", user.Email)
	return user, nil
}
