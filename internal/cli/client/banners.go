package client

import (
	"context"
	"fmt"
)

// Banner represents a promotional banner shown on the storefront
type Banner struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	TargetURL string `json:"target_url"`
	Position  int    `json:"position"`
	Active    bool   `json:"active"`
}

// BannerInput is the create/update request body for a banner
type BannerInput struct {
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	TargetURL string `json:"target_url,omitempty"`
	Position  int    `json:"position,omitempty"`
	Active    *bool  `json:"active,omitempty"`
}

// ListBanners returns all banners ordered by position
func (c *Client) ListBanners(ctx context.Context) ([]Banner, error) {
	var out []Banner
	if err := c.get(ctx, "/api/banners", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBanner creates a new banner
func (c *Client) CreateBanner(ctx context.Context, input BannerInput) (*Banner, error) {
	var out Banner
	if err := c.post(ctx, "/api/banners", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBanner updates an existing banner
func (c *Client) UpdateBanner(ctx context.Context, id string, input BannerInput) (*Banner, error) {
	var out Banner
	if err := c.patch(ctx, fmt.Sprintf("/api/banners/%s", id), input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBanner deletes a banner by id
func (c *Client) DeleteBanner(ctx context.Context, id string) error {
	return c.delete(ctx, fmt.Sprintf("/api/banners/%s", id))
}
