// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package reqdbmigrate upgrades ReqDB requirement databases from schema
// version 1.0 to 1.1.
//
// Version 1.0 stores a requirement's type as a text code
// (requirements.type_code). Version 1.1 replaces that column with an integer
// foreign key into the types lookup table (requirements.type_id). The
// migration:
//   - Checks that the types, db_version and requirements tables exist
//   - Returns early if requirements.type_id is already present
//   - Renames requirements to requirements_old and creates the 1.1 table
//   - Copies every row through an inner join on types.type_code
//   - Drops requirements_old and recreates the indexes
//   - Sets db_version to 1.1
//
// All of it runs inside one transaction per file, so a failure leaves the
// file exactly as it was.
//
// # Basic Usage
//
//	results := reqdbmigrate.RunBatch(ctx, paths, reqdbmigrate.Config{})
//	for _, r := range results {
//	    fmt.Println(r)
//	}
//
// # Driver Support
//
// This package supports two SQLite drivers via build tags:
//   - modernc.org/sqlite (default, pure Go, no CGO)
//   - github.com/mattn/go-sqlite3 (CGO, use -tags mattn)
//
// The driver is imported by this package; callers do not need a blank import.
// Run the tests once per driver:
//
//	go test ./...
//	go test -tags mattn ./...
//
// Both drivers get a percent-encoded file: URI opened with mode=rw, so file
// names containing '#', '?' or '%' work and a missing file is never created.
//
// # Rows Without a Type
//
// A requirement whose type_code has no row in types cannot be given a
// type_id. The copy uses an inner join, so such rows are not carried into the
// new table. Change.Dropped reports how many rows were left behind.
package reqdbmigrate
