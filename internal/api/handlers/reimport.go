package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/printeers/zakeke-sync/internal/store"
)

// ReimportHandler handles requests to re-queue products for import.
type ReimportHandler struct {
	store store.Store
}

// NewReimportHandler creates a new ReimportHandler.
func NewReimportHandler(s store.Store) *ReimportHandler {
	return &ReimportHandler{store: s}
}

// ReimportProductInput identifies the product to re-queue.
type ReimportProductInput struct {
	ID string `path:"id" doc:"Host catalog product ID"`
}

// ReimportProductOutput is the response for a single-product reimport.
type ReimportProductOutput struct {
	Body struct {
		Status string `json:"status" example:"queued" doc:"Reimport status"`
	}
}

// ReimportAllOutput is the response for a bulk reimport.
type ReimportAllOutput struct {
	Body struct {
		Status string `json:"status"  example:"queued" doc:"Reimport status"`
		Queued int    `json:"queued"  example:"42"     doc:"Number of products queued"`
	}
}

// ReimportProduct flags a single product for reimport on the next cycle.
func (h *ReimportHandler) ReimportProduct(
	ctx context.Context,
	input *ReimportProductInput,
) (*ReimportProductOutput, error) {
	if err := h.store.FlagNeedsImport(ctx, input.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("product not found")
		}
		return nil, huma.Error500InternalServerError("flagging product failed: " + err.Error())
	}

	resp := &ReimportProductOutput{}
	resp.Body.Status = "queued"
	return resp, nil
}

// ReimportAll flags every product for reimport. Submission still happens in
// batches over the following cycles.
func (h *ReimportHandler) ReimportAll(
	ctx context.Context,
	_ *struct{},
) (*ReimportAllOutput, error) {
	queued, err := h.store.FlagAllNeedImport(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("flagging products failed: " + err.Error())
	}

	resp := &ReimportAllOutput{}
	resp.Body.Status = "queued"
	resp.Body.Queued = queued
	return resp, nil
}

// RegisterReimportRoutes registers reimport endpoints with the Huma API.
func RegisterReimportRoutes(api huma.API, h *ReimportHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "reimport-product",
		Method:      http.MethodPost,
		Path:        "/api/v1/products/{id}/reimport",
		Summary:     "Queue a product for reimport",
		Tags:        []string{"imports"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.ReimportProduct)

	huma.Register(api, huma.Operation{
		OperationID: "reimport-all",
		Method:      http.MethodPost,
		Path:        "/api/v1/reimport",
		Summary:     "Queue all products for reimport",
		Description: "Flags every known product; the import cycle drains the queue in batches.",
		Tags:        []string{"imports"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ReimportAll)
}
