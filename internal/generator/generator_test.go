package generator

import (
	"strings"
	"testing"

	"augur/internal/ast"
	"augur/internal/config"
	"augur/internal/schema"
)

func newTestGenerator(seed int64) *Generator {
	cfg := config.Default()
	state := &schema.State{}
	return New(cfg, state, seed)
}

func TestGeneratorDeterministic(t *testing.T) {
	a := newTestGenerator(42)
	b := newTestGenerator(42)
	ta := a.GenerateTable()
	tb := b.GenerateTable()
	if a.CreateTableSQL(ta) != b.CreateTableSQL(tb) {
		t.Fatalf("same seed produced different tables:\n%s\n%s",
			a.CreateTableSQL(ta), b.CreateTableSQL(tb))
	}
	for i := 0; i < 20; i++ {
		pa := ast.BuildExpr(a.RandomPredicate(nil))
		pb := ast.BuildExpr(b.RandomPredicate(nil))
		if pa != pb {
			t.Fatalf("same seed diverged at predicate %d: %q vs %q", i, pa, pb)
		}
	}
}

func TestCreateTableSQLShape(t *testing.T) {
	g := newTestGenerator(1)
	tbl := g.GenerateTable()
	sql := g.CreateTableSQL(tbl)
	if !strings.HasPrefix(sql, "CREATE TABLE t0 (id BIGINT PRIMARY KEY") {
		t.Fatalf("unexpected CREATE TABLE prefix: %s", sql)
	}
	if !strings.HasSuffix(sql, ")") {
		t.Fatalf("unterminated CREATE TABLE: %s", sql)
	}
}

func TestInsertSQLAdvancesID(t *testing.T) {
	g := newTestGenerator(1)
	tbl := g.GenerateTable()
	first := g.InsertSQL(&tbl)
	second := g.InsertSQL(&tbl)
	if !strings.HasPrefix(first, "INSERT INTO t0 (id") {
		t.Fatalf("unexpected INSERT prefix: %s", first)
	}
	if tbl.NextID != 2 {
		t.Fatalf("NextID = %d after two inserts, want 2", tbl.NextID)
	}
	if first == second {
		t.Fatalf("consecutive inserts produced identical rows: %s", first)
	}
}

func TestRandomPredicateEvaluable(t *testing.T) {
	g := newTestGenerator(7)
	tbl := g.GenerateTable()
	pivot := &PivotRow{Table: tbl, Values: map[string]ast.Value{}}
	for _, col := range tbl.Columns {
		pivot.Values[col.Name] = g.randomLiteral(col)
	}
	for i := 0; i < 200; i++ {
		expr := g.RandomPredicate(pivot)
		// Discarded trees return an error; panics would mean a broken tree.
		if _, err := ast.Eval(expr); err != nil && !ast.IsUnpredictable(err) {
			t.Fatalf("predicate %d failed: %v", i, err)
		}
	}
}

func TestSelectActionNeedsTables(t *testing.T) {
	g := newTestGenerator(1)
	if _, err := (SelectAction{}).Build(g); err == nil {
		t.Fatal("expected error with empty schema state")
	}
	tbl := g.GenerateTable()
	g.State.Tables = append(g.State.Tables, tbl)
	q, err := (SelectAction{}).Build(g)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.HasPrefix(q.SQL, "SELECT ") {
		t.Fatalf("unexpected SELECT: %s", q.SQL)
	}
}

func TestExplainActionWrapsOthers(t *testing.T) {
	g := newTestGenerator(3)
	tbl := g.GenerateTable()
	g.State.Tables = append(g.State.Tables, tbl)
	explain := ExplainAction{}
	explain.Actions = []Action{SelectAction{}, explain}
	for i := 0; i < 50; i++ {
		q, err := explain.Build(g)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if !strings.HasPrefix(q.SQL, "EXPLAIN ") {
			t.Fatalf("missing EXPLAIN prefix: %s", q.SQL)
		}
		rest := strings.TrimPrefix(q.SQL, "EXPLAIN ")
		rest = strings.TrimPrefix(rest, "ANALYZE ")
		if !strings.HasPrefix(rest, "SELECT ") {
			t.Fatalf("wrapper did not wrap a SELECT: %s", q.SQL)
		}
	}
}

func TestExplainActionRejectsSelfOnly(t *testing.T) {
	g := newTestGenerator(1)
	explain := ExplainAction{}
	explain.Actions = []Action{explain}
	if _, err := explain.Build(g); err == nil {
		t.Fatal("expected error when only wrappable action is itself")
	}
}
