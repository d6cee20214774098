// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package reqdbmigrate

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTarget indicates that a target path does not exist.
	ErrMissingTarget = errors.New("missing file")

	// ErrPrecondition indicates that a required table is absent.
	ErrPrecondition = errors.New("precondition failed")

	// ErrSchemaMismatch indicates that requirements has neither type_code nor type_id.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// MigrationError wraps a failure with the target file and the step that failed.
type MigrationError struct {
	Path string // target database file
	Op   string // open, begin, migrate, commit
	Err  error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// preconditionError reports a missing table.
func preconditionError(table string) error {
	return fmt.Errorf("%w: missing %s table", ErrPrecondition, table)
}
