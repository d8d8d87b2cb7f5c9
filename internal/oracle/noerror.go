package oracle

import (
	"context"
	"strings"

	"augur/internal/db"
	"augur/internal/generator"
	"augur/internal/schema"
	"augur/internal/util"
)

// NoError runs one generated query action and checks the engine accepts it.
// It carries no value prediction; the signal is an error outside both the
// action's acceptable set and the global whitelist.
type NoError struct {
	Actions []generator.Action
}

// Name returns the oracle identifier.
func (o NoError) Name() string { return "NoError" }

// Run generates and executes one query.
func (o NoError) Run(ctx context.Context, exec *db.DB, gen *generator.Generator, state *schema.State) Result {
	if len(o.Actions) == 0 {
		return Result{OK: true, Oracle: o.Name(), Details: map[string]any{"skip_reason": "noerror:no_actions"}}
	}
	action := o.Actions[gen.Rand.Intn(len(o.Actions))]
	query, err := action.Build(gen)
	if err != nil {
		return Result{OK: true, Oracle: o.Name(), Details: map[string]any{"skip_reason": "noerror:" + action.Name()}}
	}
	rows, err := exec.QueryContext(ctx, query.SQL)
	if err != nil {
		if acceptsError(query, err) {
			return Result{OK: true, Oracle: o.Name(), SQL: []string{query.SQL}, Details: map[string]any{"error_reason": "noerror:acceptable"}}
		}
		if _, whitelisted := isWhitelistedSQLError(err); whitelisted {
			reason, code := sqlErrorReason("noerror", err)
			return Result{OK: true, Oracle: o.Name(), SQL: []string{query.SQL}, Err: err, Details: map[string]any{"error_reason": reason, "error_code": int(code)}}
		}
		return Result{
			OK:       false,
			Oracle:   o.Name(),
			SQL:      []string{query.SQL},
			Expected: "query accepted",
			Actual:   errString(err),
			Details:  map[string]any{"action": action.Name()},
			Err:      err,
		}
	}
	defer util.CloseWithErr(rows, "noerror rows")
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		reason, code := sqlErrorReason("noerror", err)
		return Result{OK: true, Oracle: o.Name(), SQL: []string{query.SQL}, Err: err, Details: map[string]any{"error_reason": reason, "error_code": int(code)}}
	}
	return Result{OK: true, Oracle: o.Name(), SQL: []string{query.SQL}}
}

func acceptsError(query generator.Query, err error) bool {
	msg := err.Error()
	for _, accept := range query.AcceptableErrors {
		if strings.Contains(msg, accept) {
			return true
		}
	}
	return false
}
