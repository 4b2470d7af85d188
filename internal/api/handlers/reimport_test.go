package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printeers/zakeke-sync/internal/api/handlers"
)

func TestReimportHandler_Single(t *testing.T) {
	t.Parallel()

	ms := seededStore(t)
	_, api := humatest.New(t)
	handlers.RegisterReimportRoutes(api, handlers.NewReimportHandler(ms))

	resp := api.Post("/api/v1/products/p-2/reimport")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"queued"`)

	p, err := ms.GetProduct(context.Background(), "p-2")
	require.NoError(t, err)
	assert.True(t, p.NeedsImport)
}

func TestReimportHandler_SingleNotFound(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterReimportRoutes(api, handlers.NewReimportHandler(seededStore(t)))

	resp := api.Post("/api/v1/products/missing/reimport")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestReimportHandler_All(t *testing.T) {
	t.Parallel()

	ms := seededStore(t)
	_, api := humatest.New(t)
	handlers.RegisterReimportRoutes(api, handlers.NewReimportHandler(ms))

	resp := api.Post("/api/v1/reimport")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"queued":2`)

	flagged, err := ms.ListProductsNeedingImport(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, flagged, 2)
}
