package store

import (
	"fmt"
	"strings"
)

const defaultQueryLimit = 50

// ToSQL builds the data and count queries for a product listing, returning
// both SQL strings and the shared positional arguments.
func (q *ProductQuery) ToSQL() (dataSQL string, countSQL string, args []any) {
	var conds []string

	if q.ImportStatus != nil {
		args = append(args, string(*q.ImportStatus))
		conds = append(conds, fmt.Sprintf("COALESCE(import_status, '') = $%d", len(args)))
	}
	if q.NeedsImport != nil {
		args = append(args, *q.NeedsImport)
		conds = append(conds, fmt.Sprintf("needs_import = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	countSQL = "SELECT COUNT(*) FROM products" + where

	limit := q.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	dataSQL = `SELECT id, sku, name, needs_import,
		COALESCE(import_task_id, ''), COALESCE(import_status, ''),
		created_at, updated_at
	FROM products` + where +
		fmt.Sprintf(" ORDER BY updated_at DESC LIMIT %d OFFSET %d", limit, q.Offset)

	return dataSQL, countSQL, args
}
