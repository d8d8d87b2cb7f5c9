package generator

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"augur/internal/ast"
	"augur/internal/util"
)

// Query couples SQL text with the error conditions its action accepts.
// Errors outside the set are surfaced; errors inside it are tolerated.
type Query struct {
	SQL              string
	AcceptableErrors []string
}

// Action produces one query against the current schema state.
type Action interface {
	Name() string
	Build(g *Generator) (Query, error)
}

// SelectAction generates a plain SELECT with a random predicate.
type SelectAction struct{}

// Name returns the action identifier.
func (SelectAction) Name() string { return "SELECT" }

// Build renders a SELECT over a random table.
func (SelectAction) Build(g *Generator) (Query, error) {
	tbl, ok := g.RandomTable()
	if !ok {
		return Query{}, errors.New("no tables in schema state")
	}
	items := make([]string, 1+g.Rand.Intn(SelectItemsMax))
	for i := range items {
		col := tbl.Columns[g.Rand.Intn(len(tbl.Columns))]
		items[i] = col.Name
	}
	sql := fmt.Sprintf("SELECT %s FROM %s", strings.Join(items, ", "), tbl.Name)
	if g.Rand.Intn(2) == 0 {
		pred := g.RandomPredicate(nil)
		var b strings.Builder
		b.WriteString(sql)
		b.WriteString(" WHERE ")
		b.WriteString(ast.BuildExpr(pred))
		sql = b.String()
	}
	return Query{SQL: sql}, nil
}

// ExplainAction wraps another action's query with an EXPLAIN prefix. The
// wrapped action is chosen uniformly from the set excluding this action, so
// the choice terminates. The wrapped query's acceptable errors pass through
// unchanged; EXPLAIN alters presentation, not failure semantics.
type ExplainAction struct {
	Actions []Action
}

// Name returns the action identifier.
func (ExplainAction) Name() string { return "EXPLAIN" }

// Build selects a non-EXPLAIN action and prefixes its query.
func (a ExplainAction) Build(g *Generator) (Query, error) {
	var candidates []Action
	for _, action := range a.Actions {
		if action.Name() == a.Name() {
			continue
		}
		candidates = append(candidates, action)
	}
	if len(candidates) == 0 {
		return Query{}, errors.New("explain wrapper has no wrappable actions")
	}
	inner := candidates[g.Rand.Intn(len(candidates))]
	query, err := inner.Build(g)
	if err != nil {
		return Query{}, err
	}
	var b strings.Builder
	b.WriteString("EXPLAIN ")
	if util.Chance(g.Rand, ExplainAnalyzeProb) {
		b.WriteString("ANALYZE ")
	}
	b.WriteString(query.SQL)
	return Query{SQL: b.String(), AcceptableErrors: query.AcceptableErrors}, nil
}
