// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package reqdbmigrate

import (
	"context"
	"fmt"
)

const (
	tableTypes        = "types"
	tableVersion      = "db_version"
	tableRequirements = "requirements"

	// versionKey is the db_version row that holds the schema level.
	versionKey = "db_version"
)

// Change describes what a migration did to a database.
type Change struct {
	// Migrated is false when requirements was already on 1.1.
	Migrated bool
	// Dropped counts requirements whose type_code matched no row in types.
	Dropped int64
}

// Migrate runs the complete 1.0 to 1.1 upgrade on q, which should be a
// transaction owned by the caller. Nothing is committed or rolled back here.
// Errors from the driver are returned wrapped, never handled.
func Migrate(ctx context.Context, q Querier) (Change, error) {
	for _, table := range []string{tableTypes, tableVersion, tableRequirements} {
		ok, err := TableExists(ctx, q, table)
		if err != nil {
			return Change{}, err
		} else if !ok {
			return Change{}, preconditionError(table)
		}
	}

	change, err := MigrateRequirementsTable(ctx, q)
	if err != nil {
		return Change{}, err
	}

	if err := StampVersion(ctx, q); err != nil {
		return Change{}, err
	}

	return change, nil
}

// MigrateRequirementsTable replaces requirements.type_code with
// requirements.type_id. It is a no-op when type_id already exists.
func MigrateRequirementsTable(ctx context.Context, q Querier) (Change, error) {
	shape, err := RequirementsShape(ctx, q)
	if err != nil {
		return Change{}, err
	}
	switch shape {
	case ShapeMissing:
		return Change{}, preconditionError(tableRequirements)
	case ShapeCurrent:
		return Change{}, nil
	case ShapeUnknown:
		return Change{}, fmt.Errorf("%w: requirements table missing type_code", ErrSchemaMismatch)
	}

	// A leftover requirements_old makes the rename fail, which aborts the transaction.
	if _, err := q.ExecContext(ctx, `ALTER TABLE requirements RENAME TO requirements_old`); err != nil {
		return Change{}, fmt.Errorf("rename requirements: %w", err)
	}

	if _, err := q.ExecContext(ctx, createRequirementsSQL); err != nil {
		return Change{}, fmt.Errorf("create requirements: %w", err)
	}

	var dropped int64
	err = q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM requirements_old r
		WHERE NOT EXISTS (SELECT 1 FROM types t WHERE t.type_code = r.type_code)
	`).Scan(&dropped)
	if err != nil {
		return Change{}, fmt.Errorf("count untyped requirements: %w", err)
	}

	// Inner join: rows without a matching type are left behind.
	if _, err := q.ExecContext(ctx, copyRequirementsSQL); err != nil {
		return Change{}, fmt.Errorf("copy requirements: %w", err)
	}

	if _, err := q.ExecContext(ctx, `DROP TABLE requirements_old`); err != nil {
		return Change{}, fmt.Errorf("drop requirements_old: %w", err)
	}

	for _, stmt := range requirementsIndexSQL {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return Change{}, fmt.Errorf("create index: %w", err)
		}
	}

	return Change{Migrated: true, Dropped: dropped}, nil
}

// StampVersion sets the db_version marker to SchemaTo, inserting the row if
// it is absent.
func StampVersion(ctx context.Context, q Querier) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO db_version (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, versionKey, schemaString(SchemaTo))
	if err != nil {
		return fmt.Errorf("stamp db_version: %w", err)
	}
	return nil
}

const createRequirementsSQL = `
CREATE TABLE requirements (
	id INTEGER PRIMARY KEY,
	type_id INTEGER NOT NULL,
	num_path TEXT NOT NULL,
	display_code TEXT,
	title TEXT NOT NULL,
	description_md TEXT NOT NULL,
	rationale_md TEXT,
	parent_id INTEGER,
	order_index INTEGER NOT NULL DEFAULT 0,
	status_id INTEGER NOT NULL,
	source TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES requirements(id) ON DELETE CASCADE,
	FOREIGN KEY (status_id) REFERENCES statuses(id),
	FOREIGN KEY (type_id) REFERENCES types(id)
)`

const copyRequirementsSQL = `
INSERT INTO requirements (
	id, type_id, num_path, display_code, title, description_md, rationale_md,
	parent_id, order_index, status_id, source, created_at, updated_at
)
SELECT r.id, t.id, r.num_path, r.display_code, r.title, r.description_md, r.rationale_md,
	r.parent_id, r.order_index, r.status_id, r.source, r.created_at, r.updated_at
FROM requirements_old r
JOIN types t ON t.type_code = r.type_code`

var requirementsIndexSQL = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_req_type_num ON requirements(type_id, num_path)`,
	`CREATE INDEX IF NOT EXISTS idx_req_parent_order ON requirements(parent_id, order_index)`,
	`CREATE INDEX IF NOT EXISTS idx_req_status ON requirements(status_id)`,
}
