package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/printeers/zakeke-sync/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printProductsTable(products []domain.Product) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tSKU\tNAME\tQUEUED\tSTATUS\tTASK\n")
	for i := range products {
		p := &products[i]
		status := "-"
		if p.ImportStatus != "" {
			status = string(p.ImportStatus)
		}
		task := "-"
		if p.ImportTaskID != "" {
			task = p.ImportTaskID
		}
		tw.writef("%s\t%s\t%s\t%v\t%s\t%s\n",
			p.ID,
			p.SKU,
			truncate(p.Name, 40),
			p.NeedsImport,
			status,
			task,
		)
	}
	return tw.finish()
}

func printProductDetail(p *domain.Product) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", p.ID)
	tw.writef("SKU:\t%s\n", p.SKU)
	tw.writef("Name:\t%s\n", p.Name)
	tw.writef("Queued:\t%v\n", p.NeedsImport)
	if p.ImportStatus != "" {
		tw.writef("Status:\t%s\n", p.ImportStatus)
	}
	if p.ImportTaskID != "" {
		tw.writef("Task:\t%s\n", p.ImportTaskID)
	}
	tw.writef("Updated:\t%s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
