// Package engine orchestrates the synchronization cycles: submitting product
// imports to Zakeke, polling import task results, and attaching print-ready
// artifacts to order lines.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/printeers/zakeke-sync/internal/importer"
	"github.com/printeers/zakeke-sync/internal/metrics"
	"github.com/printeers/zakeke-sync/internal/notify"
	"github.com/printeers/zakeke-sync/internal/stock"
	"github.com/printeers/zakeke-sync/internal/store"
	"github.com/printeers/zakeke-sync/internal/zakeke"
	domain "github.com/printeers/zakeke-sync/pkg/types"
)

const (
	defaultMaxImportsPerCycle = 5
	defaultPendingStatus      = "processing"
	defaultCompletedStatus    = "ready-to-ship"
)

// ArtifactFetcher retrieves the print-ready artifact for a design as a data URI.
type ArtifactFetcher interface {
	Fetch(ctx context.Context, designID string) (string, error)
}

// Engine orchestrates import submission, result polling, and artifact fetching.
type Engine struct {
	store    store.Store
	client   zakeke.Client
	stock    stock.Resolver
	fetcher  ArtifactFetcher
	notifier notify.Notifier
	log      *slog.Logger

	maxImportsPerCycle int
	pendingStatus      string
	completedStatus    string
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	c zakeke.Client,
	r stock.Resolver,
	f ArtifactFetcher,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:              s,
		client:             c,
		stock:              r,
		fetcher:            f,
		notifier:           n,
		log:                slog.Default(),
		maxImportsPerCycle: defaultMaxImportsPerCycle,
		pendingStatus:      defaultPendingStatus,
		completedStatus:    defaultCompletedStatus,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithMaxImportsPerCycle caps the number of import submissions per cycle.
func WithMaxImportsPerCycle(n int) EngineOption {
	return func(e *Engine) {
		e.maxImportsPerCycle = n
	}
}

// WithOrderStatuses sets the order statuses the artifact cycle reads from
// and moves completed orders to.
func WithOrderStatuses(pending, completed string) EngineOption {
	return func(e *Engine) {
		e.pendingStatus = pending
		e.completedStatus = completed
	}
}

// RunImportSubmission submits pending product imports, at most
// maxImportsPerCycle per run. A failed submission marks the product failed
// and drops its flag; an operator re-flags it after the reported cause is
// resolved. Only the daily API limit leaves products queued, since the next
// cycle can retry them unchanged.
func (eng *Engine) RunImportSubmission(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.ImportCycleDuration.Observe(time.Since(start).Seconds())
	}()

	products, err := eng.store.ListProductsNeedingImport(ctx, eng.maxImportsPerCycle)
	if err != nil {
		return fmt.Errorf("listing products needing import: %w", err)
	}
	if len(products) == 0 {
		return nil
	}

	items, err := eng.stock.StockList(ctx)
	if err != nil {
		return fmt.Errorf("resolving stock list: %w", err)
	}

	var failures []notify.ImportFailure

	for i := range products {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		p := &products[i]
		eng.log.Info("submitting product import", "product_id", p.ID, "sku", p.SKU)

		submitErr := eng.submitProduct(ctx, p, items)
		if submitErr == nil {
			metrics.ImportsSubmittedTotal.Inc()
			continue
		}

		if errors.Is(submitErr, zakeke.ErrDailyLimitReached) {
			eng.log.Warn("daily API limit reached, stopping import submission",
				"product_id", p.ID,
			)
			break
		}

		metrics.ImportErrorsTotal.Inc()
		eng.log.Error("import submission failed",
			"product_id", p.ID, "sku", p.SKU, "error", submitErr,
		)

		// The flag is dropped on any failure; nothing resubmits the
		// product until an operator re-flags it, so tell them.
		if err := eng.store.MarkImportFailed(ctx, p.ID, false); err != nil {
			eng.log.Error("marking import failed", "product_id", p.ID, "error", err)
		}
		failures = append(failures, notify.ImportFailure{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Reason:    submitErr.Error(),
		})
	}

	if len(failures) > 0 {
		if err := eng.notifier.SendBatchImportFailure(ctx, failures); err != nil {
			eng.log.Error("sending import failure notifications", "error", err)
		}
	}

	return nil
}

func (eng *Engine) submitProduct(
	ctx context.Context,
	p *domain.Product,
	items []domain.StockItem,
) error {
	item, err := stock.FindBySKU(items, p.SKU)
	if err != nil {
		return err
	}

	payload, err := importer.Build(p.ID, item)
	if err != nil {
		return fmt.Errorf("building import payload: %w", err)
	}

	body, contentType, err := payload.MultipartUpload()
	if err != nil {
		return fmt.Errorf("encoding import payload: %w", err)
	}

	taskID, err := eng.client.ImportProducts(ctx, bytes.NewReader(body), contentType)
	if err != nil {
		return fmt.Errorf("submitting import: %w", err)
	}

	if err := eng.store.MarkImportSubmitted(ctx, p.ID, taskID); err != nil {
		return fmt.Errorf("recording submitted import: %w", err)
	}

	eng.log.Info("import submitted", "product_id", p.ID, "task_id", taskID)
	return nil
}

// RunImportStatusRefresh polls Zakeke for the outcome of submitted imports.
// Tasks that report errors re-queue the product; tasks still running are
// left untouched.
func (eng *Engine) RunImportStatusRefresh(ctx context.Context) error {
	products, err := eng.store.ListProductsAwaitingResult(ctx)
	if err != nil {
		return fmt.Errorf("listing products awaiting result: %w", err)
	}

	var failures []notify.ImportFailure

	for i := range products {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		p := &products[i]

		result, err := eng.client.ImportResult(ctx, p.ImportTaskID)
		if err != nil {
			if errors.Is(err, zakeke.ErrDailyLimitReached) {
				eng.log.Warn("daily API limit reached, stopping status refresh")
				break
			}
			eng.log.Error("polling import result failed",
				"product_id", p.ID, "task_id", p.ImportTaskID, "error", err,
			)
			continue
		}

		metrics.ImportPollsTotal.Inc()

		switch {
		case result.Failed():
			metrics.ImportsFailedTotal.Inc()
			eng.log.Warn("import task reported errors",
				"product_id", p.ID, "task_id", p.ImportTaskID, "errors", result.Errors,
			)
			if err := eng.store.MarkImportFailed(ctx, p.ID, true); err != nil {
				eng.log.Error("marking import failed", "product_id", p.ID, "error", err)
			}
			failures = append(failures, notify.ImportFailure{
				ProductID: p.ID,
				SKU:       p.SKU,
				Name:      p.Name,
				TaskID:    p.ImportTaskID,
				Reason:    "import task reported errors",
				Errors:    result.Errors,
			})

		case result.Succeeded():
			metrics.ImportsSucceededTotal.Inc()
			eng.log.Info("import succeeded", "product_id", p.ID, "task_id", p.ImportTaskID)
			if err := eng.store.MarkImportSucceeded(ctx, p.ID); err != nil {
				eng.log.Error("marking import succeeded", "product_id", p.ID, "error", err)
			}

		default:
			// Task has neither errors nor imported products yet; poll again
			// next cycle.
			eng.log.Debug("import still running",
				"product_id", p.ID, "task_id", p.ImportTaskID,
			)
		}
	}

	if len(failures) > 0 {
		if err := eng.notifier.SendBatchImportFailure(ctx, failures); err != nil {
			eng.log.Error("sending import failure notifications", "error", err)
		}
	}

	return nil
}

// RunArtifactFetch attaches print-ready artifacts to customized order lines
// of pending orders. An order moves to the completed status only once every
// customized line has its artifact; failed lines are retried next cycle.
func (eng *Engine) RunArtifactFetch(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.ArtifactCycleDuration.Observe(time.Since(start).Seconds())
	}()

	orders, err := eng.store.ListOrdersByStatus(ctx, eng.pendingStatus)
	if err != nil {
		return fmt.Errorf("listing pending orders: %w", err)
	}

	for i := range orders {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := eng.processOrder(ctx, &orders[i]); err != nil {
			if errors.Is(err, zakeke.ErrDailyLimitReached) {
				eng.log.Warn("daily API limit reached, stopping artifact fetch")
				return nil
			}
			eng.log.Error("order processing failed", "order_id", orders[i].ID, "error", err)
		}
	}

	return nil
}

func (eng *Engine) processOrder(ctx context.Context, o *domain.Order) error {
	items, err := eng.store.ListOrderItems(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("listing order items: %w", err)
	}

	complete := true

	for i := range items {
		item := &items[i]
		if !item.Customizable() || item.Fetched {
			continue
		}

		dataURI, err := eng.fetcher.Fetch(ctx, item.DesignID)
		if err != nil {
			if errors.Is(err, zakeke.ErrDailyLimitReached) {
				return err
			}
			eng.log.Error("artifact fetch failed",
				"order_id", o.ID, "item_id", item.ID, "design_id", item.DesignID,
				"error", err,
			)
			complete = false
			continue
		}

		if err := eng.store.SetOrderItemPrintImage(ctx, item.ID, dataURI); err != nil {
			eng.log.Error("storing print image failed",
				"order_id", o.ID, "item_id", item.ID, "error", err,
			)
			complete = false
		}
	}

	if !complete {
		return nil
	}

	if err := eng.store.SetOrderStatus(ctx, o.ID, eng.completedStatus); err != nil {
		return fmt.Errorf("completing order: %w", err)
	}

	metrics.OrdersCompletedTotal.Inc()
	eng.log.Info("order completed", "order_id", o.ID, "status", eng.completedStatus)
	return nil
}

// RunOnce executes a single pass of all three cycles in order.
func (eng *Engine) RunOnce(ctx context.Context) error {
	if err := eng.RunImportSubmission(ctx); err != nil {
		return err
	}
	if err := eng.RunImportStatusRefresh(ctx); err != nil {
		return err
	}
	return eng.RunArtifactFetch(ctx)
}
