package client

import (
	"context"
	"fmt"
)

// Brand represents a product brand
type Brand struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	LogoURL   string `json:"logo_url"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

// BrandInput is the create/update request body for a brand
type BrandInput struct {
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	LogoURL string `json:"logo_url,omitempty"`
	Active  *bool  `json:"active,omitempty"`
}

// ListBrands returns all brands
func (c *Client) ListBrands(ctx context.Context) ([]Brand, error) {
	var out []Brand
	if err := c.get(ctx, "/api/brands", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBrand returns a single brand by id
func (c *Client) GetBrand(ctx context.Context, id string) (*Brand, error) {
	var out Brand
	if err := c.get(ctx, fmt.Sprintf("/api/brands/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBrand creates a new brand
func (c *Client) CreateBrand(ctx context.Context, input BrandInput) (*Brand, error) {
	var out Brand
	if err := c.post(ctx, "/api/brands", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBrand updates an existing brand
func (c *Client) UpdateBrand(ctx context.Context, id string, input BrandInput) (*Brand, error) {
	var out Brand
	if err := c.patch(ctx, fmt.Sprintf("/api/brands/%s", id), input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBrand deletes a brand by id
func (c *Client) DeleteBrand(ctx context.Context, id string) error {
	return c.delete(ctx, fmt.Sprintf("/api/brands/%s", id))
}
