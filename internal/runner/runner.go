// Package runner orchestrates fuzzing iterations, oracle checks, and case
// reporting.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"augur/internal/config"
	"augur/internal/db"
	"augur/internal/generator"
	"augur/internal/oracle"
	"augur/internal/report"
	"augur/internal/schema"
	"augur/internal/uploader"
	"augur/internal/util"
	"augur/internal/validator"
)

const initialTables = 2

// Runner drives the fuzz loop against one database.
type Runner struct {
	cfg       config.Config
	exec      *db.DB
	gen       *generator.Generator
	state     *schema.State
	validator *validator.Validator
	reporter  *report.Reporter
	uploader  uploader.Uploader
	oracles   []oracle.Oracle
	weights   []int
	insertLog []string

	iterations int64
	mismatches int64
	skips      int64
	sqlErrors  int64
}

// New constructs a Runner for the given config and DB.
func New(cfg config.Config, exec *db.DB) *Runner {
	state := &schema.State{}
	gen := generator.New(cfg, state, cfg.Seed)

	var up uploader.Uploader = uploader.NoopUploader{}
	if s3, err := uploader.NewS3(cfg.Storage.S3); err == nil && s3.Enabled() {
		up = s3
	} else if gcs, err := uploader.NewGCS(cfg.Storage.GCS); err == nil && gcs.Enabled() {
		up = gcs
	}

	sel := generator.SelectAction{}
	explain := generator.ExplainAction{}
	explain.Actions = []generator.Action{sel, explain}

	return &Runner{
		cfg:       cfg,
		exec:      exec,
		gen:       gen,
		state:     state,
		validator: validator.New(),
		reporter:  report.New(cfg.OutputDir, cfg.MaxDataDumpRows),
		uploader:  up,
		oracles: []oracle.Oracle{
			oracle.PredictedValue{},
			oracle.NoError{Actions: []generator.Action{sel, explain}},
		},
		weights: []int{cfg.Weights.Actions.Query, cfg.Weights.Actions.Explain},
	}
}

// Run executes the fuzz loop until iterations are exhausted.
func (r *Runner) Run(ctx context.Context) error {
	r.exec.Validate = r.validator.Validate
	util.Infof("runner start database=%s iterations=%d seed=%d",
		r.cfg.Database, r.cfg.Iterations, r.gen.Seed)
	if err := r.setupDatabase(ctx); err != nil {
		return err
	}
	if err := r.initState(ctx); err != nil {
		return err
	}
	for i := 0; i < r.cfg.Iterations; i++ {
		idx := util.PickWeighted(r.gen.Rand, r.weights)
		if idx >= len(r.oracles) {
			idx = len(r.oracles) - 1
		}
		r.runOracle(ctx, r.oracles[idx])
		if (i+1)%100 == 0 {
			util.Infof("progress iterations=%d mismatches=%d skips=%d sql_errors=%d",
				r.iterations, r.mismatches, r.skips, r.sqlErrors)
		}
	}
	util.Infof("runner done iterations=%d mismatches=%d skips=%d sql_errors=%d",
		r.iterations, r.mismatches, r.skips, r.sqlErrors)
	return nil
}

func (r *Runner) runOracle(ctx context.Context, o oracle.Oracle) {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()
	result := o.Run(qctx, r.exec, r.gen, r.state)
	r.iterations++
	if result.OK {
		if result.Details != nil {
			if _, skipped := result.Details["skip_reason"]; skipped {
				r.skips++
			}
		}
		if result.Err != nil {
			r.sqlErrors++
		}
		return
	}
	r.mismatches++
	r.handleResult(ctx, result)
}

func (r *Runner) setupDatabase(ctx context.Context) error {
	if _, err := r.exec.ExecContext(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", r.cfg.Database)); err != nil {
		return err
	}
	if _, err := r.exec.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", r.cfg.Database)); err != nil {
		return err
	}
	if _, err := r.exec.ExecContext(ctx, fmt.Sprintf("USE %s", r.cfg.Database)); err != nil {
		return err
	}
	return nil
}

func (r *Runner) initState(ctx context.Context) error {
	for i := 0; i < initialTables; i++ {
		tbl := r.gen.GenerateTable()
		if err := r.execSQL(ctx, r.gen.CreateTableSQL(tbl)); err != nil {
			return err
		}
		r.state.Tables = append(r.state.Tables, tbl)
		tablePtr := &r.state.Tables[len(r.state.Tables)-1]
		rows := max(1, r.cfg.MaxRowsPerTable)
		for j := 0; j < rows; j++ {
			if err := r.execSQL(ctx, r.gen.InsertSQL(tablePtr)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) execSQL(ctx context.Context, sqlText string) error {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.exec.ExecContext(qctx, sqlText); err != nil {
		return err
	}
	r.recordStatement(sqlText)
	return nil
}

func (r *Runner) recordStatement(sqlText string) {
	// Schema DDL is reproduced from schema.sql; only row data is logged.
	if strings.HasPrefix(sqlText, "INSERT") {
		r.insertLog = append(r.insertLog, sqlText)
	}
}

func (r *Runner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.StatementTimeoutMs)*time.Millisecond)
}
