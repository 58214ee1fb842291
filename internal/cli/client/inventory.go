package client

import (
	"context"
	"fmt"
)

// Inventory tracks stock for a single product. Available and LowStock are
// derived server-side (available = stock - reserved) and passed through.
type Inventory struct {
	ID                string  `json:"id"`
	ProductID         string  `json:"product_id"`
	Stock             Decimal `json:"stock"`
	Reserved          Decimal `json:"reserved"`
	Available         Decimal `json:"available"`
	LowStockThreshold Decimal `json:"low_stock_threshold"`
	LowStock          bool    `json:"low_stock"`
}

// InventoryMovement is an audit entry for a stock change
type InventoryMovement struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Delta     Decimal `json:"delta"`
	Reason    string  `json:"reason"`
	CreatedBy string  `json:"created_by"`
	CreatedAt string  `json:"created_at"`
}

// RestockRequest adds stock to a product
type RestockRequest struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

// AdjustRequest corrects stock by a signed delta (shrinkage, recounts)
type AdjustRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

// GetInventory returns the inventory record for a product
func (c *Client) GetInventory(ctx context.Context, productID string) (*Inventory, error) {
	var out Inventory
	if err := c.get(ctx, fmt.Sprintf("/api/inventory/%s", productID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInventoryMovements returns the stock change audit trail for a product
func (c *Client) ListInventoryMovements(ctx context.Context, productID string) ([]InventoryMovement, error) {
	var out []InventoryMovement
	if err := c.get(ctx, fmt.Sprintf("/api/inventory/%s/movements", productID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Restock adds stock to a product's inventory
func (c *Client) Restock(ctx context.Context, productID string, quantity int, reason string) (*Inventory, error) {
	var out Inventory
	body := RestockRequest{Quantity: quantity, Reason: reason}
	if err := c.patch(ctx, fmt.Sprintf("/api/inventory/%s/restock", productID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdjustInventory corrects a product's stock by a signed delta
func (c *Client) AdjustInventory(ctx context.Context, productID string, delta int, reason string) (*Inventory, error) {
	var out Inventory
	body := AdjustRequest{Delta: delta, Reason: reason}
	if err := c.patch(ctx, fmt.Sprintf("/api/inventory/%s/adjust", productID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
