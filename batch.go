// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package reqdbmigrate

import (
	"context"
	"errors"
	"fmt"
)

// Outcome is the per-file result of a batch run.
type Outcome int

const (
	Updated Outcome = iota
	Missing
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Updated:
		return "updated"
	case Missing:
		return "missing"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result reports what happened to one target file.
type Result struct {
	Path    string
	Outcome Outcome
	Change  Change
	Err     error
}

// String renders the line printed for the file.
func (r Result) String() string {
	switch r.Outcome {
	case Updated:
		return fmt.Sprintf("Updated %s", r.Path)
	case Missing:
		return fmt.Sprintf("Missing file: %s", r.Path)
	}
	return fmt.Sprintf("Failed %s: %s", r.Path, r.Message())
}

// Message describes a failure without the file name, which the report
// line already carries. It is empty unless Outcome is Failed.
func (r Result) Message() string {
	if r.Outcome != Failed {
		return ""
	}
	var me *MigrationError
	if errors.As(r.Err, &me) {
		return me.Err.Error()
	}
	if r.Err == nil {
		return "unknown error"
	}
	return r.Err.Error()
}

// MigrateFile upgrades a single database file in one transaction.
// The transaction is committed only if every step succeeds, and the
// connection is closed on every path.
func MigrateFile(ctx context.Context, path string, cfg Config) (Change, error) {
	cfg = cfg.defaults()

	db, err := Open(ctx, path, cfg)
	if err != nil {
		return Change{}, &MigrationError{Path: path, Op: "open", Err: err}
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Change{}, &MigrationError{Path: path, Op: "begin", Err: err}
	}
	defer tx.Rollback()

	if before, err := fetchStatus(ctx, tx); err == nil {
		cfg.Logger.Debug("schema status", "path", path, "db_version", before.DBVersion, "requirements", before.Requirements.String())
	}

	change, err := Migrate(ctx, tx)
	if err != nil {
		return Change{}, &MigrationError{Path: path, Op: "migrate", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return Change{}, &MigrationError{Path: path, Op: "commit", Err: err}
	}

	if change.Dropped > 0 {
		cfg.Logger.Warn("requirements without a matching type were not copied", "path", path, "dropped", change.Dropped)
	}
	cfg.Logger.Debug("migrated", "path", path, "changed", change.Migrated)

	return change, nil
}

// RunBatch migrates each path in order. A failure is recorded in that
// path's Result and the batch moves on to the next path.
func RunBatch(ctx context.Context, paths []string, cfg Config) []Result {
	cfg = cfg.defaults()

	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		r := Result{Path: path}
		change, err := MigrateFile(ctx, path, cfg)
		switch {
		case errors.Is(err, ErrMissingTarget):
			r.Outcome = Missing
		case err != nil:
			r.Outcome, r.Err = Failed, err
			cfg.Logger.Debug("migration failed", "path", path, "err", err)
		default:
			r.Outcome, r.Change = Updated, change
		}
		results = append(results, r)
	}
	return results
}
