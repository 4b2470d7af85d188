package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printeers/zakeke-sync/internal/store"
	"github.com/printeers/zakeke-sync/pkg/types"
)

func seedProduct(t *testing.T, s store.Store, id string, needsImport bool) {
	t.Helper()
	require.NoError(t, s.UpsertProduct(context.Background(), &types.Product{
		ID:          id,
		SKU:         "SKU-" + id,
		Name:        "Product " + id,
		NeedsImport: needsImport,
	}))
}

func TestMemoryStore_ImportLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := store.NewMemoryStore()
	seedProduct(t, s, "p-1", true)

	flagged, err := s.ListProductsNeedingImport(ctx, 10)
	require.NoError(t, err)
	require.Len(t, flagged, 1)
	assert.Equal(t, types.ImportStatusNone, flagged[0].ImportStatus)

	require.NoError(t, s.MarkImportSubmitted(ctx, "p-1", "42"))

	flagged, err = s.ListProductsNeedingImport(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, flagged)

	waiting, err := s.ListProductsAwaitingResult(ctx)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, "42", waiting[0].ImportTaskID)
	assert.Equal(t, types.ImportStatusWaiting, waiting[0].ImportStatus)

	require.NoError(t, s.MarkImportSucceeded(ctx, "p-1"))

	waiting, err = s.ListProductsAwaitingResult(ctx)
	require.NoError(t, err)
	assert.Empty(t, waiting)

	p, err := s.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, types.ImportStatusSuccess, p.ImportStatus)
}

func TestMemoryStore_MarkImportFailedReflag(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := store.NewMemoryStore()
	seedProduct(t, s, "p-1", true)
	require.NoError(t, s.MarkImportSubmitted(ctx, "p-1", "7"))

	require.NoError(t, s.MarkImportFailed(ctx, "p-1", true))

	p, err := s.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, types.ImportStatusError, p.ImportStatus)
	assert.True(t, p.NeedsImport)

	require.NoError(t, s.MarkImportFailed(ctx, "p-1", false))
	p, err = s.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.False(t, p.NeedsImport)
}

func TestMemoryStore_ListProductsNeedingImportHonorsLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := store.NewMemoryStore()
	for _, id := range []string{"a", "b", "c", "d"} {
		seedProduct(t, s, id, true)
	}

	flagged, err := s.ListProductsNeedingImport(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, flagged, 2)
}

func TestMemoryStore_UpsertPreservesImportBookkeeping(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := store.NewMemoryStore()
	seedProduct(t, s, "p-1", true)
	require.NoError(t, s.MarkImportSubmitted(ctx, "p-1", "42"))

	// A catalog refresh re-upserts the product; import state must survive.
	updated := &types.Product{ID: "p-1", SKU: "SKU-p-1", Name: "Renamed", NeedsImport: false}
	require.NoError(t, s.UpsertProduct(ctx, updated))

	p, err := s.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)
	assert.Equal(t, "42", p.ImportTaskID)
	assert.Equal(t, types.ImportStatusWaiting, p.ImportStatus)
}

func TestMemoryStore_FlagNeedsImportClearsBookkeeping(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := store.NewMemoryStore()
	seedProduct(t, s, "p-1", true)
	require.NoError(t, s.MarkImportSubmitted(ctx, "p-1", "42"))

	require.NoError(t, s.FlagNeedsImport(ctx, "p-1"))

	p, err := s.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.True(t, p.NeedsImport)
	assert.Empty(t, p.ImportTaskID)
	assert.Equal(t, types.ImportStatusNone, p.ImportStatus)

	// The stale task must not keep being polled.
	waiting, err := s.ListProductsAwaitingResult(ctx)
	require.NoError(t, err)
	assert.Empty(t, waiting)
}

func TestMemoryStore_FlagAllNeedImport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := store.NewMemoryStore()
	seedProduct(t, s, "p-1", false)
	seedProduct(t, s, "p-2", false)
	require.NoError(t, s.MarkImportSubmitted(ctx, "p-2", "9"))

	n, err := s.FlagAllNeedImport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	flagged, err := s.ListProductsNeedingImport(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, flagged, 2)

	p, err := s.GetProduct(ctx, "p-2")
	require.NoError(t, err)
	assert.Empty(t, p.ImportTaskID)
	assert.Equal(t, types.ImportStatusNone, p.ImportStatus)
}

func TestMemoryStore_ListProductsFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := store.NewMemoryStore()
	seedProduct(t, s, "p-1", true)
	seedProduct(t, s, "p-2", false)
	require.NoError(t, s.MarkImportSubmitted(ctx, "p-2", "9"))

	status := types.ImportStatusWaiting
	products, total, err := s.ListProducts(ctx, &store.ProductQuery{ImportStatus: &status})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "p-2", products[0].ID)

	needs := true
	products, total, err = s.ListProducts(ctx, &store.ProductQuery{NeedsImport: &needs})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "p-1", products[0].ID)
}

func TestMemoryStore_OrderArtifactFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := store.NewMemoryStore()

	require.NoError(t, s.UpsertOrder(ctx, &types.Order{ID: "o-1", Status: "processing"}))
	require.NoError(t, s.UpsertOrderItem(ctx, &types.OrderItem{
		ID: "i-1", OrderID: "o-1", ProductID: "p-1", DesignID: "d-1",
	}))
	require.NoError(t, s.UpsertOrderItem(ctx, &types.OrderItem{
		ID: "i-2", OrderID: "o-1", ProductID: "p-2",
	}))

	orders, err := s.ListOrdersByStatus(ctx, "processing")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	require.NoError(t, s.SetOrderItemPrintImage(ctx, "i-1", "data:image/png;base64,AAAA"))

	items, err := s.ListOrderItems(ctx, "o-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].Fetched)
	assert.Equal(t, "data:image/png;base64,AAAA", items[0].PrintImageDataURI)
	assert.False(t, items[1].Fetched)
	assert.False(t, items[1].Customizable())

	// Re-upserting the item must not wipe the fetched artifact.
	require.NoError(t, s.UpsertOrderItem(ctx, &types.OrderItem{
		ID: "i-1", OrderID: "o-1", ProductID: "p-1", DesignID: "d-1",
	}))
	items, err = s.ListOrderItems(ctx, "o-1")
	require.NoError(t, err)
	assert.True(t, items[0].Fetched)

	require.NoError(t, s.SetOrderStatus(ctx, "o-1", "ready-to-ship"))
	orders, err = s.ListOrdersByStatus(ctx, "processing")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestMemoryStore_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := store.NewMemoryStore()

	_, err := s.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.MarkImportSubmitted(ctx, "missing", "1"), store.ErrNotFound)
	assert.ErrorIs(t, s.SetOrderStatus(ctx, "missing", "x"), store.ErrNotFound)
	assert.ErrorIs(t, s.SetOrderItemPrintImage(ctx, "missing", "x"), store.ErrNotFound)
}
