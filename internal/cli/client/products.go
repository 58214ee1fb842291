package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Product represents a sellable product
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	BrandID     string     `json:"brand_id"`
	CategoryID  string     `json:"category_id"`
	Price       Decimal    `json:"price"`
	ImageURL    string     `json:"image_url"`
	Active      bool       `json:"active"`
	CreatedAt   string     `json:"created_at"`
	Inventory   *Inventory `json:"inventory,omitempty"`
}

// ProductInput is the create/update request body for a product
type ProductInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description,omitempty"`
	BrandID     string  `json:"brand_id"`
	CategoryID  string  `json:"category_id"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// ProductFilter narrows a product listing
type ProductFilter struct {
	BrandID    string
	CategoryID string
	Search     string
	Page       int
	PerPage    int
}

func (f ProductFilter) query() url.Values {
	q := url.Values{}
	if f.BrandID != "" {
		q.Set("brand_id", f.BrandID)
	}
	if f.CategoryID != "" {
		q.Set("category_id", f.CategoryID)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(f.PerPage))
	}
	return q
}

// ListProducts returns products matching the filter
func (c *Client) ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	var out []Product
	if err := c.get(ctx, "/api/products", filter.query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct returns a single product by id, including its inventory
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.get(ctx, fmt.Sprintf("/api/products/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct creates a new product
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	var out Product
	if err := c.post(ctx, "/api/products", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct updates an existing product
func (c *Client) UpdateProduct(ctx context.Context, id string, input ProductInput) (*Product, error) {
	var out Product
	if err := c.patch(ctx, fmt.Sprintf("/api/products/%s", id), input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct deletes a product by id
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.delete(ctx, fmt.Sprintf("/api/products/%s", id))
}
