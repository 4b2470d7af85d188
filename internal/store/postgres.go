package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/printeers/zakeke-sync/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// UpsertProduct inserts or updates a product by its host catalog ID. The
// import bookkeeping columns are preserved on update; only the catalog
// fields and the needs_import flag come from the caller.
func (s *PostgresStore) UpsertProduct(ctx context.Context, p *domain.Product) error {
	args := pgx.NamedArgs{
		"id":             p.ID,
		"sku":            p.SKU,
		"name":           p.Name,
		"needs_import":   p.NeedsImport,
		"import_task_id": nullIfEmpty(p.ImportTaskID),
		"import_status":  nullIfEmpty(string(p.ImportStatus)),
	}

	var taskID, status *string
	err := s.pool.QueryRow(ctx, queryUpsertProduct, args).Scan(
		&p.NeedsImport, &taskID, &status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting product: %w", err)
	}

	p.ImportTaskID = derefOrEmpty(taskID)
	p.ImportStatus = domain.ImportStatus(derefOrEmpty(status))
	return nil
}

// GetProduct retrieves a product by its host catalog ID.
func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p := &domain.Product{}
	err := scanProduct(s.pool.QueryRow(ctx, queryGetProduct, id), p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts queries products with optional filters, returning results and
// the total count matching the filters.
func (s *PostgresStore) ListProducts(
	ctx context.Context,
	opts *ProductQuery,
) ([]domain.Product, int, error) {
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// ListProductsNeedingImport returns up to limit products flagged for import,
// oldest first.
func (s *PostgresStore) ListProductsNeedingImport(
	ctx context.Context,
	limit int,
) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, queryListProductsNeedingImport, limit)
	if err != nil {
		return nil, fmt.Errorf("querying products needing import: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListProductsAwaitingResult returns products whose import has been submitted
// but not yet resolved.
func (s *PostgresStore) ListProductsAwaitingResult(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, queryListProductsAwaitingResult)
	if err != nil {
		return nil, fmt.Errorf("querying products awaiting result: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// MarkImportSubmitted records a submitted import task and clears the
// needs_import flag.
func (s *PostgresStore) MarkImportSubmitted(ctx context.Context, id string, taskID string) error {
	return s.execOne(ctx, queryMarkImportSubmitted, "marking import submitted", id, taskID)
}

// MarkImportSucceeded records a successful import.
func (s *PostgresStore) MarkImportSucceeded(ctx context.Context, id string) error {
	return s.execOne(ctx, queryMarkImportSucceeded, "marking import succeeded", id)
}

// MarkImportFailed records a failed import. When reflag is true the product
// is queued for another attempt.
func (s *PostgresStore) MarkImportFailed(ctx context.Context, id string, reflag bool) error {
	return s.execOne(ctx, queryMarkImportFailed, "marking import failed", id, reflag)
}

// FlagNeedsImport queues a single product for (re)import.
func (s *PostgresStore) FlagNeedsImport(ctx context.Context, id string) error {
	return s.execOne(ctx, queryFlagNeedsImport, "flagging product for import", id)
}

// FlagAllNeedImport queues every product for reimport and returns the number
// of products affected.
func (s *PostgresStore) FlagAllNeedImport(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, queryFlagAllNeedImport)
	if err != nil {
		return 0, fmt.Errorf("flagging all products for import: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// UpsertOrder inserts or updates an order by its host ID.
func (s *PostgresStore) UpsertOrder(ctx context.Context, o *domain.Order) error {
	args := pgx.NamedArgs{
		"id":     o.ID,
		"status": o.Status,
	}

	err := s.pool.QueryRow(ctx, queryUpsertOrder, args).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting order: %w", err)
	}
	return nil
}

// UpsertOrderItem inserts or updates an order line. The fetched artifact
// columns are preserved on update so retries never clobber a stored image.
func (s *PostgresStore) UpsertOrderItem(ctx context.Context, i *domain.OrderItem) error {
	args := pgx.NamedArgs{
		"id":                   i.ID,
		"order_id":             i.OrderID,
		"product_id":           i.ProductID,
		"design_id":            nullIfEmpty(i.DesignID),
		"print_image_data_uri": nullIfEmpty(i.PrintImageDataURI),
		"fetched":              i.Fetched,
	}

	var dataURI *string
	err := s.pool.QueryRow(ctx, queryUpsertOrderItem, args).Scan(
		&dataURI, &i.Fetched, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting order item: %w", err)
	}

	i.PrintImageDataURI = derefOrEmpty(dataURI)
	return nil
}

// ListOrdersByStatus returns orders in the given status, oldest first.
func (s *PostgresStore) ListOrdersByStatus(ctx context.Context, status string) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx, queryListOrdersByStatus, status)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// ListOrderItems returns all lines of an order.
func (s *PostgresStore) ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := s.pool.Query(ctx, queryListOrderItems, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var i domain.OrderItem
		if err := rows.Scan(
			&i.ID, &i.OrderID, &i.ProductID, &i.DesignID,
			&i.PrintImageDataURI, &i.Fetched, &i.CreatedAt, &i.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items = append(items, i)
	}

	return items, rows.Err()
}

// SetOrderItemPrintImage attaches a fetched print artifact to an order line.
func (s *PostgresStore) SetOrderItemPrintImage(ctx context.Context, itemID string, dataURI string) error {
	return s.execOne(ctx, querySetOrderItemPrintImage, "setting order item print image", itemID, dataURI)
}

// SetOrderStatus moves an order to a new status.
func (s *PostgresStore) SetOrderStatus(ctx context.Context, orderID string, status string) error {
	return s.execOne(ctx, querySetOrderStatus, "setting order status", orderID, status)
}

// execOne runs an UPDATE that must touch exactly one row.
func (s *PostgresStore) execOne(ctx context.Context, query, action string, args ...any) error {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", action, ErrNotFound)
	}
	return nil
}

// scannable abstracts pgx.Row and pgx.Rows for reuse.
type scannable interface {
	Scan(dest ...any) error
}

func scanProduct(row scannable, p *domain.Product) error {
	return row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.NeedsImport,
		&p.ImportTaskID, &p.ImportStatus,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
