package client

import (
	"context"
	"net/http"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User represents an operator account as returned by the API
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	IsAdmin   bool   `json:"is_admin"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

// LoginResponse represents the login response payload
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// Login authenticates with email and password and stores the resulting
// session (access token, refresh token, user id).
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	return c.login(ctx, "/api/auth/login", email, password)
}

// AdminLogin authenticates against the admin login endpoint, which requires
// an account with the admin role.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*LoginResponse, error) {
	return c.login(ctx, "/api/auth/admin/login", email, password)
}

func (c *Client) login(ctx context.Context, path, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.post(ctx, path, LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}

	c.session.SetAccessToken(out.AccessToken)
	c.session.SetRefreshToken(out.RefreshToken)
	c.session.SetUserID(out.User.ID)

	return &out, nil
}

// Me returns the currently authenticated user and records its id in the
// session (profile fetch is one of the places the user id is established).
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.get(ctx, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	if out.ID != "" {
		c.session.SetUserID(out.ID)
	}
	return &out, nil
}

// Logout revokes the refresh token server-side and clears the local session.
// The session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.call(ctx, request{method: http.MethodPost, path: "/api/auth/logout"}, nil)
	c.session.Clear()
	return err
}
