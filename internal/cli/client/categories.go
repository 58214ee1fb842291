package client

import (
	"context"
	"fmt"
)

// Category represents a product category; ParentID is empty for top-level ones
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID string `json:"parent_id"`
	Position int    `json:"position"`
}

// CategoryInput is the create/update request body for a category
type CategoryInput struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID string `json:"parent_id,omitempty"`
	Position int    `json:"position,omitempty"`
}

// ListCategories returns all categories ordered by position
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.get(ctx, "/api/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a new category
func (c *Client) CreateCategory(ctx context.Context, input CategoryInput) (*Category, error) {
	var out Category
	if err := c.post(ctx, "/api/categories", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory updates an existing category
func (c *Client) UpdateCategory(ctx context.Context, id string, input CategoryInput) (*Category, error) {
	var out Category
	if err := c.patch(ctx, fmt.Sprintf("/api/categories/%s", id), input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory deletes a category by id
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.delete(ctx, fmt.Sprintf("/api/categories/%s", id))
}
