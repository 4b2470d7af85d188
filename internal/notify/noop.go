package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded notifications. It is
// used when Discord (or another notification backend) is not configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards notifications with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendImportFailure logs and discards a single failure.
func (n *NoOpNotifier) SendImportFailure(_ context.Context, failure *ImportFailure) error {
	n.log.Debug("notification discarded (no backend configured)",
		"product_id", failure.ProductID,
		"sku", failure.SKU,
		"reason", failure.Reason,
	)
	return nil
}

// SendBatchImportFailure logs and discards a batch of failures.
func (n *NoOpNotifier) SendBatchImportFailure(_ context.Context, failures []ImportFailure) error {
	n.log.Debug("batch notification discarded (no backend configured)",
		"count", len(failures),
	)
	return nil
}
