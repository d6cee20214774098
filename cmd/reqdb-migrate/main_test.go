// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdhender/reqdbmigrate"
)

const legacySchema = `
CREATE TABLE statuses (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE types (id INTEGER PRIMARY KEY, type_code TEXT NOT NULL UNIQUE, name TEXT NOT NULL);
CREATE TABLE db_version (key TEXT PRIMARY KEY, value TEXT);
CREATE TABLE requirements (
	id INTEGER PRIMARY KEY,
	type_code TEXT NOT NULL,
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
	updated_at TEXT NOT NULL
);
INSERT INTO statuses (id, name) VALUES (1, 'Draft');
INSERT INTO types (id, type_code, name) VALUES (1, 'F', 'Functional'), (2, 'M', 'Mechanical');
INSERT INTO db_version (key, value) VALUES ('db_version', '1.0');
INSERT INTO requirements (id, type_code, num_path, title, description_md, status_id, created_at, updated_at) VALUES
	(10, 'F', '1', 'Login', 'Users can log in.', 1, '2026-03-01', '2026-03-01'),
	(11, 'M', '1', 'Case', 'Aluminium case.', 1, '2026-03-01', '2026-03-01');
`

func init() {
	color.NoColor = true
}

func writeDB(t *testing.T, statements ...string) string {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "reqdb.db")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	db, err := reqdbmigrate.Open(ctx, path, reqdbmigrate.Config{})
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	return path
}

func TestRun_NoPaths(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(nil, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Equal(t, usage+"\n", stdout.String())
}

func TestRun_Batch(t *testing.T) {
	ctx := context.Background()
	missing := filepath.Join(t.TempDir(), "missing.db")
	legacy := writeDB(t, legacySchema)
	current := writeDB(t, legacySchema)

	_, err := reqdbmigrate.MigrateFile(ctx, current, reqdbmigrate.Config{})
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	code := run([]string{missing, legacy, current}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, []string{
		"Missing file: " + missing,
		"Updated " + legacy,
		"Updated " + current,
	}, strings.Split(strings.TrimSpace(stdout.String()), "\n"))

	status, err := reqdbmigrate.Status(ctx, legacy, reqdbmigrate.Config{})
	require.NoError(t, err)
	assert.Equal(t, reqdbmigrate.ShapeCurrent, status.Requirements)
	assert.Equal(t, "1.1", status.DBVersion)
}

func TestRun_FailureKeepsExitZero(t *testing.T) {
	broken := writeDB(t, `CREATE TABLE db_version (key TEXT PRIMARY KEY, value TEXT)`)

	var stdout, stderr bytes.Buffer
	code := run([]string{broken}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "Failed "+broken+": precondition failed: missing types table\n", stdout.String())
}

func TestRun_WarnsOnDroppedRows(t *testing.T) {
	path := writeDB(t, legacySchema, `DELETE FROM types WHERE type_code = 'M'`)

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "Updated "+path+"\n", stdout.String())
	assert.Contains(t, stderr.String(), "dropped=1")
}

func TestRun_DashArgumentsArePaths(t *testing.T) {
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run([]string{"-old.db"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "Missing file: -old.db\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRun_VersionShorthandIsAPath(t *testing.T) {
	legacy := writeDB(t, legacySchema)
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run([]string{legacy, "-v", "--help"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, []string{
		"Updated " + legacy,
		"Missing file: -v",
		"Missing file: --help",
	}, strings.Split(strings.TrimSpace(stdout.String()), "\n"))

	status, err := reqdbmigrate.Status(context.Background(), legacy, reqdbmigrate.Config{})
	require.NoError(t, err)
	assert.Equal(t, reqdbmigrate.ShapeCurrent, status.Requirements)
}

func TestReport_Failed(t *testing.T) {
	var buf bytes.Buffer
	r := reqdbmigrate.Result{
		Path:    "req.db",
		Outcome: reqdbmigrate.Failed,
		Err:     &reqdbmigrate.MigrationError{Path: "req.db", Op: "migrate", Err: reqdbmigrate.ErrSchemaMismatch},
	}

	report(&buf, r)

	assert.Equal(t, "Failed req.db: schema mismatch\n", buf.String())
	assert.Equal(t, r.String()+"\n", buf.String())
}
