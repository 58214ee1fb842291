package client

import (
	"context"
	"fmt"
)

// Deal represents a time-windowed promotional price for a product
type Deal struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	ProductID string  `json:"product_id"`
	DealPrice Decimal `json:"deal_price"`
	StartsAt  string  `json:"starts_at"`
	EndsAt    string  `json:"ends_at"`
	Active    bool    `json:"active"`
}

// DealInput is the create/update request body for a deal
type DealInput struct {
	Title     string  `json:"title"`
	ProductID string  `json:"product_id"`
	DealPrice float64 `json:"deal_price"`
	StartsAt  string  `json:"starts_at"` // RFC3339
	EndsAt    string  `json:"ends_at"`   // RFC3339
	Active    *bool   `json:"active,omitempty"`
}

// ListDeals returns all deals
func (c *Client) ListDeals(ctx context.Context) ([]Deal, error) {
	var out []Deal
	if err := c.get(ctx, "/api/deals", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDeal creates a new deal
func (c *Client) CreateDeal(ctx context.Context, input DealInput) (*Deal, error) {
	var out Deal
	if err := c.post(ctx, "/api/deals", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDeal updates an existing deal
func (c *Client) UpdateDeal(ctx context.Context, id string, input DealInput) (*Deal, error) {
	var out Deal
	if err := c.patch(ctx, fmt.Sprintf("/api/deals/%s", id), input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDeal deletes a deal by id
func (c *Client) DeleteDeal(ctx context.Context, id string) error {
	return c.delete(ctx, fmt.Sprintf("/api/deals/%s", id))
}
