// Package stock provides a client for the host stock/inventory service,
// which resolves product SKUs to the full item attributes needed to build
// import payloads.
package stock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/printeers/zakeke-sync/pkg/types"
)

// ErrUnknownSKU is returned when the stock list carries no item for a SKU.
var ErrUnknownSKU = errors.New("sku not present in stock list")

// Resolver defines the interface for reading the stock list.
type Resolver interface {
	// StockList returns every stock item known to the inventory service.
	StockList(ctx context.Context) ([]types.StockItem, error)
}

// FindBySKU scans a stock list for the item with the given SKU.
func FindBySKU(items []types.StockItem, sku string) (*types.StockItem, error) {
	for i := range items {
		if items[i].SKU == sku {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("%q: %w", sku, ErrUnknownSKU)
}

// HTTPResolver implements Resolver against the stock service's JSON API.
type HTTPResolver struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// ResolverOption configures the HTTPResolver.
type ResolverOption func(*HTTPResolver)

// WithResolverHTTPClient overrides the default HTTP client.
func WithResolverHTTPClient(hc *http.Client) ResolverOption {
	return func(r *HTTPResolver) {
		r.client = hc
	}
}

// NewHTTPResolver creates a stock service client rooted at baseURL.
func NewHTTPResolver(baseURL, apiKey string, opts ...ResolverOption) *HTTPResolver {
	r := &HTTPResolver{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type stockListResponse struct {
	Items []types.StockItem `json:"items"`
}

// StockList fetches the full stock list.
func (r *HTTPResolver) StockList(ctx context.Context) ([]types.StockItem, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		r.baseURL+"/stocklist",
		http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("creating stock list request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing stock list request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading stock list response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"stock service error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var list stockListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parsing stock list response: %w", err)
	}

	return list.Items, nil
}
