// Package store defines the datastore abstraction for zakeke-sync.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without a running database.
package store

import (
	"context"
	"errors"

	domain "github.com/printeers/zakeke-sync/pkg/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ProductQuery defines optional filters for product listing queries.
type ProductQuery struct {
	ImportStatus *domain.ImportStatus
	NeedsImport  *bool
	Limit        int // default 50
	Offset       int
}

// Store defines all data access operations for zakeke-sync.
type Store interface {
	// Products
	UpsertProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, opts *ProductQuery) ([]domain.Product, int, error)
	ListProductsNeedingImport(ctx context.Context, limit int) ([]domain.Product, error)
	ListProductsAwaitingResult(ctx context.Context) ([]domain.Product, error)
	MarkImportSubmitted(ctx context.Context, id string, taskID string) error
	MarkImportSucceeded(ctx context.Context, id string) error
	MarkImportFailed(ctx context.Context, id string, reflag bool) error
	FlagNeedsImport(ctx context.Context, id string) error
	FlagAllNeedImport(ctx context.Context) (int, error)

	// Orders
	UpsertOrder(ctx context.Context, o *domain.Order) error
	UpsertOrderItem(ctx context.Context, i *domain.OrderItem) error
	ListOrdersByStatus(ctx context.Context, status string) ([]domain.Order, error)
	ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	SetOrderItemPrintImage(ctx context.Context, itemID string, dataURI string) error
	SetOrderStatus(ctx context.Context, orderID string, status string) error

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
