// Package types defines the core business types for zakeke-sync.
package types

import "time"

// ImportStatus represents the lifecycle state of a product import at Zakeke.
type ImportStatus string

// Import status constants. A product with no status has never been submitted.
const (
	ImportStatusNone    ImportStatus = ""
	ImportStatusWaiting ImportStatus = "waiting"
	ImportStatusSuccess ImportStatus = "success"
	ImportStatusError   ImportStatus = "error"
)

// Product is the host catalog view of a customizable product, carrying the
// per-product import record. NeedsImport is set when a product is created or
// a print-affecting attribute changes; the submission cycle clears it.
type Product struct {
	ID           string       `json:"id"                       db:"id"`
	SKU          string       `json:"sku"                      db:"sku"`
	Name         string       `json:"name"                     db:"name"`
	NeedsImport  bool         `json:"needs_import"             db:"needs_import"`
	ImportTaskID string       `json:"import_task_id,omitempty" db:"import_task_id"`
	ImportStatus ImportStatus `json:"import_status"            db:"import_status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Order is a host order that may contain customized line items.
type Order struct {
	ID        string    `json:"id"         db:"id"`
	Status    string    `json:"status"     db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// OrderItem is a single order line. DesignID is empty for items without
// customization metadata; those are never fetched. Fetched marks that the
// print-ready artifact has been attached, making retries idempotent.
type OrderItem struct {
	ID                string `json:"id"                             db:"id"`
	OrderID           string `json:"order_id"                       db:"order_id"`
	ProductID         string `json:"product_id"                     db:"product_id"`
	DesignID          string `json:"design_id,omitempty"            db:"design_id"`
	PrintImageDataURI string `json:"print_image_data_uri,omitempty" db:"print_image_data_uri"`
	Fetched           bool   `json:"fetched"                        db:"fetched"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Customizable reports whether this line item references a customer design.
func (i *OrderItem) Customizable() bool {
	return i.DesignID != ""
}

// StockItem is the stock service's description of a product, carrying the
// attributes and rendering layers needed to build an import payload.
type StockItem struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Kind          string          `json:"kind"`
	ExampleImages []string        `json:"example_images"`
	Attributes    StockAttributes `json:"attributes"`

	// RenderingLayers is nil when the stock service has no print
	// rendering data for the item; such items cannot be imported.
	RenderingLayers *RenderingLayers `json:"rendering_layers,omitempty"`
}

// StockAttributes hold the physical variant properties of a stock item.
type StockAttributes struct {
	CaseColour string `json:"case_colour"`
	CaseType   string `json:"case_type"`
	PrintSide  string `json:"print_side"`
}

// VariantName returns the variant label used in import payloads.
func (a StockAttributes) VariantName() string {
	return a.CaseColour + " " + a.CaseType
}

// RenderingLayers describe the print geometry of a stock item. PPMM is the
// pixel density in pixels per millimetre.
type RenderingLayers struct {
	MaskURL   string  `json:"mask_url"`
	MockupURL string  `json:"mockup_url"`
	PPMM      float64 `json:"ppmm"`
}
