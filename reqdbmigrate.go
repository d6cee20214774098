// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package reqdbmigrate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Config holds migration options.
type Config struct {
	// Logger for operational logging. Uses slog.Default() if nil.
	Logger *slog.Logger
}

// defaults returns a copy of cfg with default values applied.
func (cfg Config) defaults() Config {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// Open opens an existing database file for migration.
// It never creates a file; a missing path returns ErrMissingTarget.
func Open(ctx context.Context, path string, cfg Config) (*sql.DB, error) {
	cfg = cfg.defaults()

	if !fileExists(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingTarget)
	}

	dsn := buildDSN(path, migrationPragmas)
	cfg.Logger.Debug("opening database", "dsn", dsn)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	// Ensure cleanup on error
	success := false
	defer func() {
		if !success {
			db.Close()
		}
	}()

	// One connection keeps the pragmas and the transaction on the same handle.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	success = true
	return db, nil
}

// fileURI renders path as a SQLite URI filename. '#', '?' and '%' in a
// file name are percent-encoded so SQLite does not read them as URI syntax.
func fileURI(path string) string {
	u := url.URL{Scheme: "file", OmitHost: true, Path: filepath.ToSlash(path)}
	return u.String()
}

// fileExists matches any existing path, directories included. A directory
// then fails when SQLite tries to open it.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// isNoSuchTable checks if an error indicates a missing table.
func isNoSuchTable(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "no such table")
}
