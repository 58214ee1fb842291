package client

import (
	"context"
	"fmt"
	"net/url"
)

// Specification describes an attribute products in a category carry
type Specification struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Unit       string `json:"unit"`
}

// SpecificationInput is the create request body for a specification
type SpecificationInput struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Unit       string `json:"unit,omitempty"`
}

// ListSpecifications returns the specifications defined for a category
func (c *Client) ListSpecifications(ctx context.Context, categoryID string) ([]Specification, error) {
	q := url.Values{"category_id": []string{categoryID}}
	var out []Specification
	if err := c.get(ctx, "/api/specifications", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSpecification creates a new specification
func (c *Client) CreateSpecification(ctx context.Context, input SpecificationInput) (*Specification, error) {
	var out Specification
	if err := c.post(ctx, "/api/specifications", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSpecification deletes a specification by id
func (c *Client) DeleteSpecification(ctx context.Context, id string) error {
	return c.delete(ctx, fmt.Sprintf("/api/specifications/%s", id))
}
