package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domain "github.com/printeers/zakeke-sync/pkg/types"
)

// MemoryStore is an in-memory Store used for tests and local development
// when no database DSN is configured.
type MemoryStore struct {
	mu       sync.Mutex
	products map[string]domain.Product
	orders   map[string]domain.Order
	items    map[string]domain.OrderItem
	nowFunc  func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: map[string]domain.Product{},
		orders:   map[string]domain.Order{},
		items:    map[string]domain.OrderItem{},
		nowFunc:  time.Now,
	}
}

// UpsertProduct inserts or updates a product. Import bookkeeping fields are
// preserved on update.
func (m *MemoryStore) UpsertProduct(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFunc()
	if existing, ok := m.products[p.ID]; ok {
		p.ImportTaskID = existing.ImportTaskID
		p.ImportStatus = existing.ImportStatus
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	m.products[p.ID] = *p
	return nil
}

// GetProduct retrieves a product by its host catalog ID.
func (m *MemoryStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return &p, nil
}

// ListProducts queries products with optional filters.
func (m *MemoryStore) ListProducts(
	_ context.Context,
	opts *ProductQuery,
) ([]domain.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []domain.Product
	for _, p := range m.products {
		if opts.ImportStatus != nil && p.ImportStatus != *opts.ImportStatus {
			continue
		}
		if opts.NeedsImport != nil && p.NeedsImport != *opts.NeedsImport {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	total := len(matched)

	if opts.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[opts.Offset:]

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, total, nil
}

// ListProductsNeedingImport returns up to limit products flagged for import,
// oldest first.
func (m *MemoryStore) ListProductsNeedingImport(
	_ context.Context,
	limit int,
) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var flagged []domain.Product
	for _, p := range m.products {
		if p.NeedsImport {
			flagged = append(flagged, p)
		}
	}

	sort.Slice(flagged, func(i, j int) bool {
		return flagged[i].UpdatedAt.Before(flagged[j].UpdatedAt)
	})

	if limit < len(flagged) {
		flagged = flagged[:limit]
	}
	return flagged, nil
}

// ListProductsAwaitingResult returns products with a submitted, unresolved
// import task.
func (m *MemoryStore) ListProductsAwaitingResult(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var waiting []domain.Product
	for _, p := range m.products {
		if p.ImportStatus == domain.ImportStatusWaiting && p.ImportTaskID != "" {
			waiting = append(waiting, p)
		}
	}

	sort.Slice(waiting, func(i, j int) bool {
		return waiting[i].UpdatedAt.Before(waiting[j].UpdatedAt)
	})
	return waiting, nil
}

// MarkImportSubmitted records a submitted import task.
func (m *MemoryStore) MarkImportSubmitted(_ context.Context, id string, taskID string) error {
	return m.updateProduct(id, func(p *domain.Product) {
		p.NeedsImport = false
		p.ImportTaskID = taskID
		p.ImportStatus = domain.ImportStatusWaiting
	})
}

// MarkImportSucceeded records a successful import.
func (m *MemoryStore) MarkImportSucceeded(_ context.Context, id string) error {
	return m.updateProduct(id, func(p *domain.Product) {
		p.ImportStatus = domain.ImportStatusSuccess
	})
}

// MarkImportFailed records a failed import, optionally re-queueing it.
func (m *MemoryStore) MarkImportFailed(_ context.Context, id string, reflag bool) error {
	return m.updateProduct(id, func(p *domain.Product) {
		p.ImportStatus = domain.ImportStatusError
		p.NeedsImport = reflag
	})
}

// FlagNeedsImport queues a single product for (re)import. Any prior task ID
// and status are cleared so the product drops out of result polling.
func (m *MemoryStore) FlagNeedsImport(_ context.Context, id string) error {
	return m.updateProduct(id, func(p *domain.Product) {
		p.NeedsImport = true
		p.ImportTaskID = ""
		p.ImportStatus = domain.ImportStatusNone
	})
}

// FlagAllNeedImport queues every product for reimport, clearing prior import
// bookkeeping.
func (m *MemoryStore) FlagAllNeedImport(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFunc()
	for id, p := range m.products {
		p.NeedsImport = true
		p.ImportTaskID = ""
		p.ImportStatus = domain.ImportStatusNone
		p.UpdatedAt = now
		m.products[id] = p
	}
	return len(m.products), nil
}

// UpsertOrder inserts or updates an order.
func (m *MemoryStore) UpsertOrder(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFunc()
	if existing, ok := m.orders[o.ID]; ok {
		o.CreatedAt = existing.CreatedAt
	} else {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	m.orders[o.ID] = *o
	return nil
}

// UpsertOrderItem inserts or updates an order line. Fetched artifact fields
// are preserved on update.
func (m *MemoryStore) UpsertOrderItem(_ context.Context, i *domain.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFunc()
	if existing, ok := m.items[i.ID]; ok {
		i.PrintImageDataURI = existing.PrintImageDataURI
		i.Fetched = existing.Fetched
		i.CreatedAt = existing.CreatedAt
	} else {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
	m.items[i.ID] = *i
	return nil
}

// ListOrdersByStatus returns orders in the given status, oldest first.
func (m *MemoryStore) ListOrdersByStatus(_ context.Context, status string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var orders []domain.Order
	for _, o := range m.orders {
		if o.Status == status {
			orders = append(orders, o)
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	return orders, nil
}

// ListOrderItems returns all lines of an order, sorted by item ID.
func (m *MemoryStore) ListOrderItems(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []domain.OrderItem
	for _, i := range m.items {
		if i.OrderID == orderID {
			items = append(items, i)
		}
	}

	sort.Slice(items, func(a, b int) bool {
		return items[a].ID < items[b].ID
	})
	return items, nil
}

// SetOrderItemPrintImage attaches a fetched print artifact to an order line.
func (m *MemoryStore) SetOrderItemPrintImage(_ context.Context, itemID string, dataURI string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.items[itemID]
	if !ok {
		return fmt.Errorf("order item %s: %w", itemID, ErrNotFound)
	}
	i.PrintImageDataURI = dataURI
	i.Fetched = true
	i.UpdatedAt = m.nowFunc()
	m.items[itemID] = i
	return nil
}

// SetOrderStatus moves an order to a new status.
func (m *MemoryStore) SetOrderStatus(_ context.Context, orderID string, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	o.Status = status
	o.UpdatedAt = m.nowFunc()
	m.orders[orderID] = o
	return nil
}

// Migrate is a no-op for the in-memory store.
func (m *MemoryStore) Migrate(context.Context) error { return nil }

// Ping always succeeds for the in-memory store.
func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) updateProduct(id string, fn func(*domain.Product)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	fn(&p)
	p.UpdatedAt = m.nowFunc()
	m.products[id] = p
	return nil
}
