// Package notify defines the notification interface and implementations
// for import failure delivery.
package notify

import "context"

// ImportFailure contains the data needed to report a failed product import.
type ImportFailure struct {
	ProductID string
	SKU       string
	Name      string
	TaskID    string
	Reason    string
	Errors    []string
}

// Notifier defines the interface for reporting import failures to operators.
type Notifier interface {
	SendImportFailure(ctx context.Context, failure *ImportFailure) error
	SendBatchImportFailure(ctx context.Context, failures []ImportFailure) error
}
