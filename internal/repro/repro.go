// Package repro replays a captured case directory against a live database.
package repro

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"augur/internal/config"
	"augur/internal/db"
	"augur/internal/util"
)

// Options configures a reproduction run.
type Options struct {
	CaseDir  string
	DSN      string
	Database string
}

// Run executes the reproduction flow for a case directory: schema first, then
// row data, then the failing query.
func Run(ctx context.Context, opts Options) error {
	if opts.CaseDir == "" {
		return errors.New("case_dir is required")
	}
	if opts.DSN == "" {
		return errors.New("dsn is required")
	}
	if opts.Database == "" {
		opts.Database = "augur_repro"
	}
	if err := db.EnsureDatabase(ctx, opts.DSN, opts.Database); err != nil {
		return err
	}
	dsn := config.UpdateDatabaseInDSN(opts.DSN, opts.Database)
	exec, err := db.Open(dsn)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(exec, "repro db")

	fmt.Printf("database=%s dsn=%s\n", opts.Database, dsn)
	printVersion(ctx, exec)

	if err := execSQLFile(ctx, exec, filepath.Join(opts.CaseDir, "schema.sql")); err != nil {
		return errors.Wrap(err, "schema")
	}
	insertsPath := filepath.Join(opts.CaseDir, "inserts.sql")
	if fileExists(insertsPath) {
		if err := execSQLFile(ctx, exec, insertsPath); err != nil {
			return errors.Wrap(err, "inserts")
		}
	}
	if err := execSQLFile(ctx, exec, filepath.Join(opts.CaseDir, "case.sql")); err != nil {
		return errors.Wrap(err, "case")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func execSQLFile(ctx context.Context, exec *db.DB, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	statements := splitSQL(string(content))
	if len(statements) == 0 {
		return nil
	}
	fmt.Printf("exec_file=%s statements=%d\n", path, len(statements))
	for idx, stmt := range statements {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := exec.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "stmt=%d sql=%s", idx+1, strings.TrimSpace(stmt))
		}
	}
	return nil
}

func printVersion(ctx context.Context, exec *db.DB) {
	row := exec.QueryRowContext(ctx, "SELECT tidb_version()")
	var v string
	if err := row.Scan(&v); err == nil && strings.TrimSpace(v) != "" {
		fmt.Printf("tidb_version=%s\n", strings.ReplaceAll(v, "\n", " "))
		return
	}
	row = exec.QueryRowContext(ctx, "SELECT VERSION()")
	if err := row.Scan(&v); err == nil && strings.TrimSpace(v) != "" {
		fmt.Printf("version=%s\n", v)
	}
}
