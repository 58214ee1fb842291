package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopd-dev/shopd/internal/cli/client"
)

// mockBrandAPI simulates the API client for brand commands
type mockBrandAPI struct {
	brands     []client.Brand
	created    *client.BrandInput
	deleted    string
	csrfCalls  int
	shouldFail bool
	errorMsg   string
}

func (m *mockBrandAPI) ListBrands(ctx context.Context) ([]client.Brand, error) {
	if m.shouldFail {
		return nil, errors.New(m.errorMsg)
	}
	return m.brands, nil
}

func (m *mockBrandAPI) CreateBrand(ctx context.Context, input client.BrandInput) (*client.Brand, error) {
	if m.shouldFail {
		return nil, errors.New(m.errorMsg)
	}
	m.created = &input
	return &client.Brand{ID: "b1", Name: input.Name, Slug: input.Slug}, nil
}

func (m *mockBrandAPI) DeleteBrand(ctx context.Context, id string) error {
	if m.shouldFail {
		return errors.New(m.errorMsg)
	}
	m.deleted = id
	return nil
}

func (m *mockBrandAPI) FetchCSRFToken(ctx context.Context) (string, error) {
	m.csrfCalls++
	return "csrf", nil
}

func TestListBrands_Empty(t *testing.T) {
	mockAPI := &mockBrandAPI{brands: []client.Brand{}}
	var out bytes.Buffer

	err := runListBrands(context.Background(), WithBrandsAPI(mockAPI), WithBrandsOutput(&out))
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if !strings.Contains(out.String(), "No brands found") {
		t.Errorf("expected 'No brands found' message, got: %s", out.String())
	}
}

func TestListBrands_RendersTable(t *testing.T) {
	mockAPI := &mockBrandAPI{brands: []client.Brand{
		{ID: "b1", Name: "Acme", Slug: "acme", Active: true},
		{ID: "b2", Name: "Globex", Slug: "globex", Active: false},
	}}
	var out bytes.Buffer

	err := runListBrands(context.Background(), WithBrandsAPI(mockAPI), WithBrandsOutput(&out))
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	for _, want := range []string{"Acme", "acme", "Globex"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected output to contain %q, got: %s", want, out.String())
		}
	}
}

func TestListBrands_APIFailure(t *testing.T) {
	mockAPI := &mockBrandAPI{
		shouldFail: true,
		errorMsg:   "Unauthorized access (status 401)",
	}
	var out bytes.Buffer

	err := runListBrands(context.Background(), WithBrandsAPI(mockAPI), WithBrandsOutput(&out))
	if err == nil {
		t.Fatal("expected error when API fails, but got success")
	}

	if !strings.Contains(err.Error(), "Unauthorized") {
		t.Errorf("expected authentication error, got: %s", err.Error())
	}
	if out.Len() > 0 {
		t.Errorf("expected no output on error, got: %s", out.String())
	}
}

func TestAddBrand_PrefetchesCSRF(t *testing.T) {
	mockAPI := &mockBrandAPI{}
	var out bytes.Buffer

	input := client.BrandInput{Name: "Acme", Slug: "acme"}
	err := runAddBrand(context.Background(), input, WithBrandsAPI(mockAPI), WithBrandsOutput(&out))
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if mockAPI.csrfCalls != 1 {
		t.Errorf("expected one CSRF pre-fetch before the mutation, got %d", mockAPI.csrfCalls)
	}
	if mockAPI.created == nil || mockAPI.created.Name != "Acme" {
		t.Errorf("expected brand to be created, got %+v", mockAPI.created)
	}
}

func TestDeleteBrand(t *testing.T) {
	mockAPI := &mockBrandAPI{}
	var out bytes.Buffer

	err := runDeleteBrand(context.Background(), "b9", WithBrandsAPI(mockAPI), WithBrandsOutput(&out))
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if mockAPI.deleted != "b9" {
		t.Errorf("expected brand b9 deleted, got %q", mockAPI.deleted)
	}
}
