package client

import (
	"context"
	"fmt"
	"net/url"
)

// OrderItem is a single line of an order
type OrderItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  Decimal `json:"quantity"`
	UnitPrice Decimal `json:"unit_price"`
}

// OrderEvent is a timeline entry recording a status change
type OrderEvent struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Note      string `json:"note"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

// Order represents a customer order with its items and status timeline
type Order struct {
	ID            string       `json:"id"`
	Number        string       `json:"number"`
	CustomerName  string       `json:"customer_name"`
	CustomerEmail string       `json:"customer_email"`
	Status        string       `json:"status"`
	Subtotal      Decimal      `json:"subtotal"`
	Discount      Decimal      `json:"discount"`
	Total         Decimal      `json:"total"`
	CreatedAt     string       `json:"created_at"`
	Items         []OrderItem  `json:"items,omitempty"`
	Events        []OrderEvent `json:"events,omitempty"`
}

// UpdateOrderStatusRequest is the status change request body
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// ListOrders returns orders, optionally filtered by status
func (c *Client) ListOrders(ctx context.Context, status string) ([]Order, error) {
	var q url.Values
	if status != "" {
		q = url.Values{"status": []string{status}}
	}
	var out []Order
	if err := c.get(ctx, "/api/orders", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrder returns a single order with its items and timeline
func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	var out Order
	if err := c.get(ctx, fmt.Sprintf("/api/orders/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrderStatus moves an order to a new status, appending a timeline entry
func (c *Client) UpdateOrderStatus(ctx context.Context, id, status, note string) (*Order, error) {
	var out Order
	body := UpdateOrderStatusRequest{Status: status, Note: note}
	if err := c.patch(ctx, fmt.Sprintf("/api/orders/%s/status", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
