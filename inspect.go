// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package reqdbmigrate

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TableExists reports whether a table with the given name exists.
// Name matching follows SQLite's rules for sqlite_master.
func TableExists(ctx context.Context, q Querier, name string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("table %s: %w", name, err)
	}
	return n > 0, nil
}

// ColumnExists reports whether table has a column with the given name.
// It returns false when the table itself does not exist; check that first
// with TableExists.
func ColumnExists(ctx context.Context, q Querier, table, column string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("column %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}

// Shape classifies the requirements table.
type Shape int

const (
	ShapeMissing Shape = iota // no requirements table
	ShapeLegacy               // 1.0: type_code column
	ShapeCurrent              // 1.1: type_id column
	ShapeUnknown              // neither column
)

func (s Shape) String() string {
	switch s {
	case ShapeMissing:
		return "missing"
	case ShapeLegacy:
		return "legacy"
	case ShapeCurrent:
		return "current"
	case ShapeUnknown:
		return "unknown"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// RequirementsShape inspects the requirements table.
// type_id wins when both columns are present.
func RequirementsShape(ctx context.Context, q Querier) (Shape, error) {
	ok, err := TableExists(ctx, q, tableRequirements)
	if err != nil {
		return ShapeUnknown, err
	} else if !ok {
		return ShapeMissing, nil
	}

	ok, err = ColumnExists(ctx, q, tableRequirements, "type_id")
	if err != nil {
		return ShapeUnknown, err
	} else if ok {
		return ShapeCurrent, nil
	}

	ok, err = ColumnExists(ctx, q, tableRequirements, "type_code")
	if err != nil {
		return ShapeUnknown, err
	} else if ok {
		return ShapeLegacy, nil
	}

	return ShapeUnknown, nil
}
