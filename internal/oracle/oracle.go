// Package oracle contains the correctness checks the fuzzer runs against the
// engine. Each oracle generates its own workload and reports a Result; a
// Result with OK=false is a candidate bug report.
package oracle

import (
	"context"

	"augur/internal/db"
	"augur/internal/generator"
	"augur/internal/schema"
)

// Result is the outcome of one oracle iteration.
type Result struct {
	OK       bool
	Oracle   string
	SQL      []string
	Expected string
	Actual   string
	Details  map[string]any
	Err      error
}

// Oracle is one correctness check against the engine under test.
type Oracle interface {
	Name() string
	Run(ctx context.Context, exec *db.DB, gen *generator.Generator, state *schema.State) Result
}
