// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Command reqdb-migrate upgrades ReqDB files from schema 1.0 to 1.1.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mdhender/reqdbmigrate"
)

const usage = "Usage: reqdb-migrate <path-to-ReqDB> [more paths...]"

// exitUsage is returned when no paths are given.
const exitUsage = 2

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
// Per-file failures are reported on stdout and do not change the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	code := 0
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	rootCmd := &cobra.Command{
		Use:   "reqdb-migrate <path-to-ReqDB> [more paths...]",
		Short: "Upgrade ReqDB databases to schema 1.1",
		Long: `reqdb-migrate converts requirements.type_code into requirements.type_id
and sets db_version to 1.1. Each file is migrated in its own transaction;
a failure is reported and the remaining files are still processed.`,
		// There are no flags: every argument, "-v" or "-old.db" included, is a path.
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, paths []string) error {
			if len(paths) == 0 {
				fmt.Fprintln(stdout, usage)
				code = exitUsage
				return nil
			}
			logger.Debug("reqdb-migrate", "version", versionString())
			results := reqdbmigrate.RunBatch(cmd.Context(), paths, reqdbmigrate.Config{Logger: logger})
			for _, r := range results {
				report(stdout, r)
			}
			return nil
		},
	}
	// cobra falls back to os.Args when given nil
	rootCmd.SetArgs(append([]string{}, args...))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return code
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

// report prints one result line, coloring only the leading word.
func report(w io.Writer, r reqdbmigrate.Result) {
	switch r.Outcome {
	case reqdbmigrate.Updated:
		fmt.Fprintf(w, "%s %s\n", green.Sprint("Updated"), r.Path)
	case reqdbmigrate.Missing:
		fmt.Fprintf(w, "%s %s\n", yellow.Sprint("Missing file:"), r.Path)
	default:
		fmt.Fprintf(w, "%s %s: %s\n", red.Sprint("Failed"), r.Path, r.Message())
	}
}

func versionString() string {
	v := reqdbmigrate.Version()
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
