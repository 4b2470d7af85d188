package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/printeers/zakeke-sync/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListProducts(context.Background(), &ListProductsParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"title":"Internal Server Error"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListProducts(context.Background(), &ListProductsParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 500)")
}

func TestClient_ListProducts(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		assert.Equal(t, "waiting", r.URL.Query().Get("import_status"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ProductsResponse{
			Products: []domain.Product{{ID: "p-1", SKU: "IP15-CLEAR"}},
			Total:    1,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.ListProducts(context.Background(), &ListProductsParams{
		ImportStatus: "waiting",
		Limit:        10,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Products, 1)
	assert.Equal(t, "p-1", resp.Products[0].ID)
}

func TestClient_GetProduct(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/p-1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.Product{ID: "p-1", ImportTaskID: "42"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	p, err := c.GetProduct(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "42", p.ImportTaskID)
}

func TestClient_ReimportAll(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/reimport", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"queued","queued":7}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	queued, err := c.ReimportAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, queued)
}

func TestClient_TriggerImports(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/sync/imports", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"completed"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.TriggerImports(context.Background()))
}
