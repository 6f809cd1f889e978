package backend

import (
	"context"
	"net/http"

	"github.com/shopfront/shopfront/internal/domain/session"
)

// authResponse is the backend's reply to login and register:
// the user together with the issued bearer credential.
type authResponse struct {
	User  session.User `json:"user"`
	Token string       `json:"token"`
}

// Login exchanges email and password for a user and a bearer credential.
func (c *Client) Login(ctx context.Context, email, password string) (*session.User, string, error) {
	req := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, "", err
	}
	return &resp.User, resp.Token, nil
}

// Register creates an account and returns the user and issued credential.
func (c *Client) Register(ctx context.Context, name, email, password string) (*session.User, string, error) {
	req := map[string]string{"name": name, "email": email, "password": password}
	var resp authResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, "", err
	}
	return &resp.User, resp.Token, nil
}

// Me validates the stored credential and returns the current identity.
// A 401/403 response matches session.ErrCredentialRejected.
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := c.doRequest(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Compile-time check that Client implements the session auth collaborator.
var _ session.AuthAPI = (*Client)(nil)
