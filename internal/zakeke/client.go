// Package zakeke provides a Zakeke customization API client abstracted
// behind interfaces for testability.
package zakeke

import (
	"context"
	"encoding/json"
	"io"
)

// ImportResult is the outcome of an asynchronous CSV import task.
// An empty Errors slice with zero ImportedProducts means the task is still
// running; callers should poll again on the next cycle.
type ImportResult struct {
	ImportedProducts []json.RawMessage `json:"importedProducts"`
	Errors           []string          `json:"errors"`
}

// Succeeded reports whether the task imported at least one product.
func (r *ImportResult) Succeeded() bool {
	return len(r.ImportedProducts) > 0
}

// Failed reports whether the task reported any errors.
func (r *ImportResult) Failed() bool {
	return len(r.Errors) > 0
}

// OutputFiles points at the generated print-ready output bundle for a design.
// URL is empty while Zakeke is still rendering the design.
type OutputFiles struct {
	URL string `json:"url"`
}

// Client defines the interface for interacting with the Zakeke API.
type Client interface {
	// ImportProducts uploads a multipart-wrapped CSV archive and returns
	// the task ID of the queued import.
	ImportProducts(ctx context.Context, body io.Reader, contentType string) (string, error)

	// ImportResult fetches the current result of an import task.
	ImportResult(ctx context.Context, taskID string) (*ImportResult, error)

	// DesignOutputFiles requests the output bundle location for a
	// customer-finalized design.
	DesignOutputFiles(ctx context.Context, designID string) (*OutputFiles, error)
}

// TokenProvider defines the interface for obtaining OAuth2 bearer tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}
