package oracle

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"augur/internal/ast"
	"augur/internal/db"
	"augur/internal/generator"
	"augur/internal/schema"
)

// PredictedValue is the expected-value oracle. It picks a pivot row, builds a
// random expression tree over that row's values, computes the value the tree
// must evaluate to, then asks the engine for the same expression and compares.
type PredictedValue struct{}

// Name returns the oracle identifier.
func (o PredictedValue) Name() string { return "PredictedValue" }

const predictedPivotTries = 6

// Run executes one predicted-value iteration.
func (o PredictedValue) Run(ctx context.Context, exec *db.DB, gen *generator.Generator, state *schema.State) Result {
	if state == nil || !state.HasTables() {
		return Result{OK: true, Oracle: o.Name(), Details: map[string]any{"skip_reason": "predicted:no_tables"}}
	}
	pivot, err := pickPivotRow(ctx, exec, gen, state)
	if err != nil {
		return Result{OK: true, Oracle: o.Name(), Err: err, Details: map[string]any{"skip_reason": "predicted:pivot_error"}}
	}
	if pivot == nil {
		return Result{OK: true, Oracle: o.Name(), Details: map[string]any{"skip_reason": "predicted:no_rows"}}
	}

	expr := gen.RandomPredicate(pivot)
	predicted, err := ast.Eval(expr)
	if err != nil {
		if ast.IsUnpredictable(err) {
			return Result{OK: true, Oracle: o.Name(), Details: map[string]any{"skip_reason": "predicted:unpredictable"}}
		}
		return Result{OK: true, Oracle: o.Name(), Err: err, Details: map[string]any{"skip_reason": "predicted:eval_error"}}
	}

	id := pivot.Values["id"]
	querySQL := fmt.Sprintf("SELECT %s FROM %s WHERE id = %d",
		ast.BuildExpr(expr), pivot.Table.Name, id.Int())
	cell, found, err := exec.QueryScalar(ctx, querySQL)
	if err != nil {
		reason, code := sqlErrorReason("predicted", err)
		details := map[string]any{"error_reason": reason}
		if code != 0 {
			details["error_code"] = int(code)
		}
		return Result{OK: true, Oracle: o.Name(), SQL: []string{querySQL}, Err: err, Details: details}
	}
	if !found {
		// The pivot row was read moments ago; its disappearance is the bug.
		return Result{
			OK:       false,
			Oracle:   o.Name(),
			SQL:      []string{querySQL},
			Expected: predicted.String(),
			Actual:   "<no row>",
			Details:  mismatchDetails(pivot, expr),
		}
	}
	if valuesMatch(predicted, cell) {
		return Result{OK: true, Oracle: o.Name(), SQL: []string{querySQL}}
	}
	return Result{
		OK:       false,
		Oracle:   o.Name(),
		SQL:      []string{querySQL},
		Expected: predicted.String(),
		Actual:   renderCell(cell),
		Details:  mismatchDetails(pivot, expr),
	}
}

// valuesMatch compares the predicted value against the cell the engine
// returned. Integer comparisons parse the cell so "12" and 12 agree.
func valuesMatch(predicted ast.Value, cell sql.NullString) bool {
	if predicted.IsNull() {
		return !cell.Valid
	}
	if !cell.Valid {
		return false
	}
	if predicted.IsString() {
		return cell.String == predicted.Str()
	}
	n, err := strconv.ParseInt(strings.TrimSpace(cell.String), 10, 64)
	if err != nil {
		return false
	}
	return n == predicted.Int()
}

func renderCell(cell sql.NullString) string {
	if !cell.Valid {
		return "NULL"
	}
	return cell.String
}

func mismatchDetails(pivot *generator.PivotRow, expr ast.Expr) map[string]any {
	values := make(map[string]any, len(pivot.Values))
	for name, v := range pivot.Values {
		values[name] = v.String()
	}
	return map[string]any{
		"table":        pivot.Table.Name,
		"expression":   ast.BuildExpr(expr),
		"trace":        ast.Trace(expr),
		"pivot_values": values,
	}
}

func pickPivotRow(ctx context.Context, exec *db.DB, gen *generator.Generator, state *schema.State) (*generator.PivotRow, error) {
	for i := 0; i < predictedPivotTries; i++ {
		tbl := state.Tables[gen.Rand.Intn(len(state.Tables))]
		pivot, err := fetchPivotRow(ctx, exec, tbl)
		if err != nil {
			return nil, err
		}
		if pivot != nil {
			return pivot, nil
		}
	}
	return nil, nil
}

func fetchPivotRow(ctx context.Context, exec *db.DB, tbl schema.Table) (*generator.PivotRow, error) {
	if len(tbl.Columns) == 0 {
		return nil, nil
	}
	colNames := make([]string, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		colNames = append(colNames, col.Name)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY RAND() LIMIT 1",
		strings.Join(colNames, ", "), tbl.Name)
	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	raw := make([]sql.RawBytes, len(colNames))
	scanArgs := make([]any, len(raw))
	for i := range raw {
		scanArgs[i] = &raw[i]
	}
	if err := rows.Scan(scanArgs...); err != nil {
		return nil, err
	}
	values := make(map[string]ast.Value, len(tbl.Columns))
	for i, col := range tbl.Columns {
		v, err := cellToValue(col, raw[i])
		if err != nil {
			return nil, err
		}
		values[col.Name] = v
	}
	return &generator.PivotRow{Table: tbl, Values: values}, nil
}

func cellToValue(col schema.Column, raw sql.RawBytes) (ast.Value, error) {
	if raw == nil {
		return ast.NullValue(), nil
	}
	switch col.Type {
	case schema.TypeInt:
		n, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return ast.Value{}, errors.Wrapf(err, "column %s", col.Name)
		}
		return ast.IntValue(n), nil
	case schema.TypeVarchar:
		return ast.StringValue(string(raw)), nil
	default:
		panic(fmt.Sprintf("oracle: unhandled column type %v", col.Type))
	}
}
