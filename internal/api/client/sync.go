package client

import (
	"context"
	"fmt"
	"net/url"
)

// ReimportProduct flags a single product for reimport on the next cycle.
func (c *Client) ReimportProduct(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/v1/products/%s/reimport", url.PathEscape(id))
	return c.post(ctx, path, nil)
}

// ReimportAll flags every product for reimport and returns how many were
// queued.
func (c *Client) ReimportAll(ctx context.Context) (int, error) {
	var resp struct {
		Queued int `json:"queued"`
	}
	if err := c.post(ctx, "/api/v1/reimport", &resp); err != nil {
		return 0, err
	}
	return resp.Queued, nil
}

// TriggerImports runs one import submission cycle on the server.
func (c *Client) TriggerImports(ctx context.Context) error {
	return c.post(ctx, "/api/v1/sync/imports", nil)
}

// TriggerResults runs one import status refresh cycle on the server.
func (c *Client) TriggerResults(ctx context.Context) error {
	return c.post(ctx, "/api/v1/sync/results", nil)
}

// TriggerArtifacts runs one artifact fetch cycle on the server.
func (c *Client) TriggerArtifacts(ctx context.Context) error {
	return c.post(ctx, "/api/v1/sync/artifacts", nil)
}
