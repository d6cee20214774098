// Copyright (c) 2026 Michael D Henderson. All rights reserved.

//go:build mattn

package reqdbmigrate

import (
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// driverName is the database/sql name registered by github.com/mattn/go-sqlite3.
const driverName = "sqlite3"

// pragma represents a SQLite pragma setting.
type pragma struct {
	name  string
	value string
}

// migrationPragmas are applied to every connection opened on a target file.
// Foreign keys stay off while the requirements table is rebuilt; rows are
// copied in table order and a child may precede its parent.
var migrationPragmas = []pragma{
	{name: "_foreign_keys", value: "0"},
	{name: "_busy_timeout", value: "5000"},
}

// buildDSN constructs a DSN for github.com/mattn/go-sqlite3.
// mattn uses the syntax: file:path?mode=rw&_foreign_keys=0&_busy_timeout=5000
// The path is percent-encoded and mode=rw keeps SQLite from creating a file
// that is not there.
func buildDSN(path string, pragmas []pragma) string {
	var sb strings.Builder

	sb.WriteString(fileURI(path))
	sb.WriteString("?mode=rw")

	for _, p := range pragmas {
		sb.WriteString("&")
		fmt.Fprintf(&sb, "%s=%s", p.name, p.value)
	}

	return sb.String()
}
