package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopd-dev/shopd/internal/cli/client"
)

// mockOrderAPI simulates the API client for order commands
type mockOrderAPI struct {
	orders       []client.Order
	order        *client.Order
	statusSet    string
	noteSet      string
	csrfCalls    int
	listStatus   string
	shouldFail   bool
	errorMsg     string
}

func (m *mockOrderAPI) ListOrders(ctx context.Context, status string) ([]client.Order, error) {
	if m.shouldFail {
		return nil, errors.New(m.errorMsg)
	}
	m.listStatus = status
	return m.orders, nil
}

func (m *mockOrderAPI) GetOrder(ctx context.Context, id string) (*client.Order, error) {
	if m.shouldFail {
		return nil, errors.New(m.errorMsg)
	}
	return m.order, nil
}

func (m *mockOrderAPI) UpdateOrderStatus(ctx context.Context, id, status, note string) (*client.Order, error) {
	if m.shouldFail {
		return nil, errors.New(m.errorMsg)
	}
	m.statusSet = status
	m.noteSet = note
	updated := *m.order
	updated.Status = status
	return &updated, nil
}

func (m *mockOrderAPI) FetchCSRFToken(ctx context.Context) (string, error) {
	m.csrfCalls++
	return "csrf", nil
}

func TestListOrders_PassesStatusFilter(t *testing.T) {
	mockAPI := &mockOrderAPI{orders: []client.Order{
		{Number: "SO-1001", CustomerName: "Jo Smith", Status: "pending", Total: 42},
	}}
	var out bytes.Buffer

	err := runListOrders(context.Background(), "pending", WithOrdersAPI(mockAPI), WithOrdersOutput(&out))
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if mockAPI.listStatus != "pending" {
		t.Errorf("expected status filter 'pending', got %q", mockAPI.listStatus)
	}
	if !strings.Contains(out.String(), "SO-1001") {
		t.Errorf("expected order number in output, got: %s", out.String())
	}
}

func TestShowOrder_RendersTimeline(t *testing.T) {
	mockAPI := &mockOrderAPI{order: &client.Order{
		Number:        "SO-1001",
		CustomerName:  "Jo Smith",
		CustomerEmail: "jo@example.com",
		Status:        "confirmed",
		Subtotal:      50,
		Discount:      8,
		Total:         42,
		Items: []client.OrderItem{
			{Name: "Widget", Quantity: 2, UnitPrice: 25},
		},
		Events: []client.OrderEvent{
			{Status: "pending", CreatedAt: "2026-01-02T10:00:00Z"},
			{Status: "confirmed", Note: "payment received", CreatedAt: "2026-01-02T11:00:00Z"},
		},
	}}
	var out bytes.Buffer

	err := runShowOrder(context.Background(), "o1", WithOrdersAPI(mockAPI), WithOrdersOutput(&out))
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	for _, want := range []string{"SO-1001", "jo@example.com", "Widget", "payment received"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected output to contain %q, got: %s", want, out.String())
		}
	}
}

func TestSetOrderStatus_PrefetchesCSRF(t *testing.T) {
	mockAPI := &mockOrderAPI{order: &client.Order{Number: "SO-1001", Status: "pending"}}
	var out bytes.Buffer

	err := runSetOrderStatus(context.Background(), "o1", "confirmed", "looks good",
		WithOrdersAPI(mockAPI), WithOrdersOutput(&out))
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if mockAPI.csrfCalls != 1 {
		t.Errorf("expected one CSRF pre-fetch, got %d", mockAPI.csrfCalls)
	}
	if mockAPI.statusSet != "confirmed" || mockAPI.noteSet != "looks good" {
		t.Errorf("unexpected status change: %q / %q", mockAPI.statusSet, mockAPI.noteSet)
	}
	if !strings.Contains(out.String(), "confirmed") {
		t.Errorf("expected confirmation in output, got: %s", out.String())
	}
}

func TestShowOrder_APIFailure(t *testing.T) {
	mockAPI := &mockOrderAPI{shouldFail: true, errorMsg: "Resource not found (status 404)"}
	var out bytes.Buffer

	err := runShowOrder(context.Background(), "missing", WithOrdersAPI(mockAPI), WithOrdersOutput(&out))
	if err == nil {
		t.Fatal("expected error, got success")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not-found error, got: %s", err.Error())
	}
}
