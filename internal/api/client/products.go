package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/printeers/zakeke-sync/pkg/types"
)

// ProductsResponse wraps a paginated products response.
type ProductsResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// ListProductsParams defines query parameters for product queries.
type ListProductsParams struct {
	ImportStatus string
	NeedsImport  string
	Limit        int
	Offset       int
}

// ListProducts returns products matching the given parameters.
func (c *Client) ListProducts(
	ctx context.Context,
	params *ListProductsParams,
) (*ProductsResponse, error) {
	q := url.Values{}
	if params.ImportStatus != "" {
		q.Set("import_status", params.ImportStatus)
	}
	if params.NeedsImport != "" {
		q.Set("needs_import", params.NeedsImport)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}

	path := "/api/v1/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ProductsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProduct returns a single product by its host catalog ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, fmt.Sprintf("/api/v1/products/%s", url.PathEscape(id)), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
