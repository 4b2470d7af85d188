package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/printeers/zakeke-sync/internal/store"
	domain "github.com/printeers/zakeke-sync/pkg/types"
)

// ProductsHandler handles product query endpoints.
type ProductsHandler struct {
	store store.Store
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(s store.Store) *ProductsHandler {
	return &ProductsHandler{store: s}
}

// ListProductsInput is the input for listing products with optional filters.
type ListProductsInput struct {
	ImportStatus string `query:"import_status" doc:"Filter by import status"         enum:"waiting,success,error,"`
	NeedsImport  string `query:"needs_import"  doc:"Filter by import flag"           enum:"true,false,"`
	Limit        int    `query:"limit"         doc:"Number of results (default 50)"  minimum:"1" maximum:"1000"`
	Offset       int    `query:"offset"        doc:"Pagination offset"               minimum:"0"`
}

// ListProductsOutput is the response for listing products.
type ListProductsOutput struct {
	Body struct {
		Products []domain.Product `json:"products"`
		Total    int              `json:"total"`
		Limit    int              `json:"limit"`
		Offset   int              `json:"offset"`
	}
}

// GetProductInput is the input for getting a single product.
type GetProductInput struct {
	ID string `path:"id" doc:"Host catalog product ID"`
}

// GetProductOutput is the response for getting a single product.
type GetProductOutput struct {
	Body domain.Product
}

// ListProducts returns products with optional import status filters and
// pagination.
func (h *ProductsHandler) ListProducts(
	ctx context.Context,
	input *ListProductsInput,
) (*ListProductsOutput, error) {
	q := &store.ProductQuery{
		Offset: input.Offset,
	}

	if input.ImportStatus != "" {
		status := domain.ImportStatus(input.ImportStatus)
		q.ImportStatus = &status
	}

	if input.NeedsImport != "" {
		needs := input.NeedsImport == "true"
		q.NeedsImport = &needs
	}

	if input.Limit != 0 {
		q.Limit = input.Limit
	}

	products, total, err := h.store.ListProducts(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("product query failed: " + err.Error())
	}

	resp := &ListProductsOutput{}
	resp.Body.Products = products
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset

	return resp, nil
}

// GetProduct returns a single product by its host catalog ID.
func (h *ProductsHandler) GetProduct(
	ctx context.Context,
	input *GetProductInput,
) (*GetProductOutput, error) {
	product, err := h.store.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("product not found")
	}

	return &GetProductOutput{Body: *product}, nil
}

// RegisterProductRoutes registers product endpoints with the Huma API.
func RegisterProductRoutes(api huma.API, h *ProductsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "List products",
		Description: "Lists products with their per-product import state.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListProducts)

	huma.Register(api, huma.Operation{
		OperationID: "get-product",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}",
		Summary:     "Get a product",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetProduct)
}
