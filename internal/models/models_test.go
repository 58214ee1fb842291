package models

import (
	"testing"
	"time"
)

func TestCanTransitionOrder(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"pending to confirmed", OrderPending, OrderConfirmed, true},
		{"pending to cancelled", OrderPending, OrderCancelled, true},
		{"pending to shipped", OrderPending, OrderShipped, false},
		{"pending to delivered", OrderPending, OrderDelivered, false},
		{"confirmed to shipped", OrderConfirmed, OrderShipped, true},
		{"confirmed to cancelled", OrderConfirmed, OrderCancelled, true},
		{"shipped to delivered", OrderShipped, OrderDelivered, true},
		{"shipped to cancelled", OrderShipped, OrderCancelled, false},
		{"delivered is terminal", OrderDelivered, OrderCancelled, false},
		{"cancelled is terminal", OrderCancelled, OrderConfirmed, false},
		{"unknown status", "unknown", OrderConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransitionOrder(tt.from, tt.to); got != tt.allowed {
				t.Errorf("CanTransitionOrder(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestInventoryDerivedFields(t *testing.T) {
	inv := Inventory{Stock: 10, Reserved: 4, LowStockThreshold: 5}

	if got := inv.Available(); got != 6 {
		t.Errorf("Available() = %d, want 6", got)
	}
	if inv.LowStock() {
		t.Error("expected stock above threshold")
	}

	inv.Reserved = 6
	if !inv.LowStock() {
		t.Error("expected low stock when available hits threshold")
	}
}

func TestRefreshTokenValid(t *testing.T) {
	now := time.Now()
	revoked := now.Add(-time.Hour)

	tests := []struct {
		name  string
		token RefreshToken
		valid bool
	}{
		{"live token", RefreshToken{ExpiresAt: now.Add(time.Hour)}, true},
		{"expired token", RefreshToken{ExpiresAt: now.Add(-time.Minute)}, false},
		{"revoked token", RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.Valid(now); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}
