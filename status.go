// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package reqdbmigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SchemaStatus describes the schema level of a database file.
type SchemaStatus struct {
	// DBVersion is the db_version marker value, empty if there is none.
	DBVersion string
	// Current is true when the marker equals SchemaTo.
	Current      bool
	Requirements Shape
}

// Status returns the schema status without modifying the database.
func Status(ctx context.Context, path string, cfg Config) (*SchemaStatus, error) {
	db, err := Open(ctx, path, cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return fetchStatus(ctx, db)
}

func fetchStatus(ctx context.Context, q Querier) (*SchemaStatus, error) {
	status := &SchemaStatus{}

	shape, err := RequirementsShape(ctx, q)
	if err != nil {
		return nil, err
	}
	status.Requirements = shape

	version, err := fetchDBVersion(ctx, q)
	if err != nil {
		return nil, err
	}
	status.DBVersion = version
	status.Current = version == schemaString(SchemaTo)

	return status, nil
}

// fetchDBVersion returns the db_version marker.
// Returns "" if the table or the row doesn't exist.
func fetchDBVersion(ctx context.Context, q Querier) (string, error) {
	var value sql.NullString
	err := q.QueryRowContext(ctx, `SELECT value FROM db_version WHERE key = ?`, versionKey).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isNoSuchTable(err) {
			return "", nil
		}
		return "", fmt.Errorf("fetch db_version: %w", err)
	}
	return value.String, nil
}
