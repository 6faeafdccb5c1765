package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/mise/backend/internal/application/identity"
	"github.com/mise/backend/internal/infrastructure/auth"
)

// ErrNoRefreshToken indicates Refresh was called before a login
var ErrNoRefreshToken = errors.New("client: no refresh token held")

// Login authenticates against the API and stores the returned access
// token for subsequent requests. The refresh token is kept so the
// session can be rotated with Refresh.
func (c *Client) Login(ctx context.Context, username, password string) (*identity.AuthResponse, error) {
	req := identity.LoginRequest{Username: username, Password: password}

	var payload identity.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &payload); err != nil {
		return nil, err
	}
	c.adoptTokens(payload.Tokens)
	return &payload, nil
}

// Refresh rotates the stored token pair
func (c *Client) Refresh(ctx context.Context) (*auth.TokenPair, error) {
	c.mu.RLock()
	refreshToken := c.refreshToken
	c.mu.RUnlock()
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	req := identity.RefreshRequest{RefreshToken: refreshToken}
	var pair auth.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", req, &pair); err != nil {
		return nil, err
	}
	c.adoptTokens(&pair)
	return &pair, nil
}

// Logout revokes the current session server-side and drops the stored
// tokens
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.mu.Lock()
	c.token = ""
	c.refreshToken = ""
	c.mu.Unlock()
	return nil
}

func (c *Client) adoptTokens(pair *auth.TokenPair) {
	if pair == nil {
		return
	}
	c.mu.Lock()
	c.token = pair.AccessToken
	c.refreshToken = pair.RefreshToken
	c.mu.Unlock()
}
