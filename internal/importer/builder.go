// Package importer converts host stock items into the Zakeke bulk-import
// payload format: four fixed-schema CSV datasets bundled into a zip archive
// and wrapped in multipart/form-data for upload.
package importer

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/printeers/zakeke-sync/pkg/types"
)

// Validation errors. Both mean the product cannot be imported as-is; no
// network call is made.
var (
	ErrNotPrintItem      = errors.New("only print items can be imported")
	ErrNoRenderingLayers = errors.New("stock item has no rendering layers")
)

// printTypeDPI is the print resolution advertised for every imported product.
const printTypeDPI = 300

// localePrefix tags locale-bound names in import datasets.
const localePrefix = "en-GB:"

// Payload is a complete import payload for one product.
type Payload struct {
	// ArchiveName is the upload file name, derived from the SKU.
	ArchiveName string

	Areas      *Dataset
	PrintTypes *Dataset
	Products   *Dataset
	Sides      *Dataset
}

// Build assembles the four import datasets for one product. productID is the
// host catalog identifier used as MasterProductID throughout the payload.
func Build(productID string, item *types.StockItem) (*Payload, error) {
	if item.Kind != "print" {
		return nil, fmt.Errorf("%s (kind %q): %w", item.SKU, item.Kind, ErrNotPrintItem)
	}
	if item.RenderingLayers == nil {
		return nil, fmt.Errorf("%s: %w", item.SKU, ErrNoRenderingLayers)
	}

	variant := item.Attributes.VariantName()
	side := item.Attributes.PrintSide

	areas := NewDataset("areas.txt", []string{
		"MasterProductID",
		"VariantName",
		"SideName",
		"AreaName",
		"UrlAreaMask",
		"ClipOut",
	})
	areas.AppendRow([]string{
		productID,
		variant,
		side,
		side,
		item.RenderingLayers.MaskURL,
		"false",
	})

	printTypes := NewDataset("printTypes.txt", []string{
		"MasterProductID",
		"PrintType",
		"PrintTypeNameLocale",
		"DPI",
		"DisableSellerCliparts",
		"DisableUploadImages",
		"DisableText",
		"UseFixedImageSizes",
		"CanChangeSvgColors",
		"CanUseImageFilters",
		"CanIgnoreQualityWarning",
		"EnableUserImageUpload",
		"EnableJpgUpload",
		"EnablePngUpload",
		"EnableSvgUpload",
		"EnablePdfUpload",
		"EnablePdfWithRasterUpload",
		"EnableEpsUpload",
		"EnableFacebookUpload",
		"EnableInstagramUpload",
		"EnablePreviewDesignsPDF",
	})
	printTypes.AppendRow([]string{
		productID,
		side,
		localePrefix + side,
		strconv.Itoa(printTypeDPI),
		"false",
		"false",
		"false",
		"false",
		"true",
		"true",
		"true",
		"true",
		"true",
		"true",
		"true",
		"true",
		"true",
		"true",
		"true",
		"true",
		"false",
	})

	imageLink := ""
	if len(item.ExampleImages) > 0 {
		imageLink = item.ExampleImages[0]
	}

	products := NewDataset("products.txt", []string{
		"MasterProductID",
		"ProductID",
		"ProductName",
		"ImageLink",
		"Attributes",
		"VariantName",
		"VariantNameLocale",
	})
	products.AppendRow([]string{
		productID,
		productID,
		item.Name,
		imageLink,
		"",
		variant,
		localePrefix + variant,
	})

	sides := NewDataset("sides.txt", []string{
		"MasterProductID",
		"VariantName",
		"SideName",
		"SideNameLocale",
		"UrlImageSide",
		"SideCode",
		"PPCM",
	})
	sides.AppendRow([]string{
		productID,
		variant,
		side,
		localePrefix + side,
		item.RenderingLayers.MockupURL,
		side,
		// The stock service reports pixels per millimetre; Zakeke wants
		// pixels per centimetre.
		strconv.Itoa(int(math.Round(item.RenderingLayers.PPMM * 10))),
	})

	return &Payload{
		ArchiveName: item.SKU + ".zip",
		Areas:       areas,
		PrintTypes:  printTypes,
		Products:    products,
		Sides:       sides,
	}, nil
}
