package client

import (
	"context"
	"fmt"
)

// CreateUserRequest is the request body for creating an operator account
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// ListUsers returns all operator accounts (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.get(ctx, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser returns a single operator account by id (admin only)
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var out User
	if err := c.get(ctx, fmt.Sprintf("/api/users/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser creates a new operator account (admin only)
func (c *Client) CreateUser(ctx context.Context, input CreateUserRequest) (*User, error) {
	var out User
	if err := c.post(ctx, "/api/users", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeactivateUser disables an operator account (admin only)
func (c *Client) DeactivateUser(ctx context.Context, id string) (*User, error) {
	var out User
	if err := c.patch(ctx, fmt.Sprintf("/api/users/%s/deactivate", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
