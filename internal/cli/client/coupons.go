package client

import (
	"context"
	"fmt"
)

// Coupon represents a discount code
type Coupon struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	Kind          string  `json:"kind"` // percent, fixed
	Value         Decimal `json:"value"`
	MinOrderTotal Decimal `json:"min_order_total"`
	MaxUses       Decimal `json:"max_uses"`
	Uses          Decimal `json:"uses"`
	ExpiresAt     string  `json:"expires_at"`
	Active        bool    `json:"active"`
}

// CouponInput is the create/update request body for a coupon
type CouponInput struct {
	Code          string  `json:"code"`
	Kind          string  `json:"kind"`
	Value         float64 `json:"value"`
	MinOrderTotal float64 `json:"min_order_total,omitempty"`
	MaxUses       int     `json:"max_uses,omitempty"`
	ExpiresAt     string  `json:"expires_at,omitempty"` // RFC3339
	Active        *bool   `json:"active,omitempty"`
}

// ListCoupons returns all coupons
func (c *Client) ListCoupons(ctx context.Context) ([]Coupon, error) {
	var out []Coupon
	if err := c.get(ctx, "/api/coupons", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCoupon creates a new coupon
func (c *Client) CreateCoupon(ctx context.Context, input CouponInput) (*Coupon, error) {
	var out Coupon
	if err := c.post(ctx, "/api/coupons", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCoupon updates an existing coupon
func (c *Client) UpdateCoupon(ctx context.Context, id string, input CouponInput) (*Coupon, error) {
	var out Coupon
	if err := c.patch(ctx, fmt.Sprintf("/api/coupons/%s", id), input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCoupon deletes a coupon by id
func (c *Client) DeleteCoupon(ctx context.Context, id string) error {
	return c.delete(ctx, fmt.Sprintf("/api/coupons/%s", id))
}
