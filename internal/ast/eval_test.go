package ast

import (
	"testing"

	"augur/internal/schema"

	"github.com/pkg/errors"
)

func mustEval(t *testing.T, e Expr) Value {
	t.Helper()
	v, err := Eval(e)
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	return v
}

func TestEvalDeterministic(t *testing.T) {
	tree := Logical{
		Left: Comparison{
			Left:  FuncCall{Func: FuncIfNull, Args: []Expr{nullConst(), intConst(4)}},
			Op:    ">=",
			Right: intConst(3),
		},
		Op:    "AND",
		Right: Between{Expr: intConst(5), Low: intConst(1), High: intConst(9)},
	}
	first := mustEval(t, tree)
	second := mustEval(t, tree)
	if first != second {
		t.Fatalf("evaluation not deterministic: %s vs %s", first, second)
	}
	if first.Int() != 1 {
		t.Fatalf("expected 1, got %s", first)
	}
}

func TestEvalLogicalThreeValued(t *testing.T) {
	cases := []struct {
		left  Expr
		op    string
		right Expr
		want  Value
	}{
		{intConst(0), "AND", nullConst(), IntValue(0)},
		{nullConst(), "AND", intConst(1), NullValue()},
		{intConst(1), "AND", intConst(1), IntValue(1)},
		{intConst(1), "OR", nullConst(), IntValue(1)},
		{nullConst(), "OR", intConst(0), NullValue()},
		{intConst(0), "OR", intConst(0), IntValue(0)},
	}
	for _, tc := range cases {
		got := mustEval(t, Logical{Left: tc.left, Op: tc.op, Right: tc.right})
		if got != tc.want {
			t.Fatalf("(%s %s %s) = %s, want %s",
				BuildExpr(tc.left), tc.op, BuildExpr(tc.right), got, tc.want)
		}
	}
}

func TestEvalComparisonNullPropagates(t *testing.T) {
	got := mustEval(t, Comparison{Left: nullConst(), Op: "=", Right: intConst(1)})
	if !got.IsNull() {
		t.Fatalf("(NULL = 1) = %s, want NULL", got)
	}
}

func TestEvalComparisonStrings(t *testing.T) {
	got := mustEval(t, Comparison{Left: strConst("Abc"), Op: "=", Right: strConst("abc")})
	if got.Int() != 1 {
		t.Fatalf("case-insensitive compare failed: %s", got)
	}
	got = mustEval(t, Comparison{Left: strConst("3"), Op: "=", Right: intConst(3)})
	if got.Int() != 1 {
		t.Fatalf("mixed compare failed: %s", got)
	}
}

func TestEvalBetween(t *testing.T) {
	got := mustEval(t, Between{Expr: intConst(5), Low: intConst(1), High: intConst(9)})
	if got.Int() != 1 {
		t.Fatalf("5 BETWEEN 1 AND 9 = %s", got)
	}
	got = mustEval(t, Between{Expr: intConst(10), Low: intConst(1), High: nullConst()})
	if !got.IsNull() {
		t.Fatalf("10 BETWEEN 1 AND NULL = %s, want NULL", got)
	}
	// Unsatisfied lower bound decides FALSE even with a NULL upper bound.
	got = mustEval(t, Between{Expr: intConst(0), Low: intConst(1), High: nullConst()})
	if got.Int() != 0 {
		t.Fatalf("0 BETWEEN 1 AND NULL = %s, want 0", got)
	}
}

func TestEvalIn(t *testing.T) {
	got := mustEval(t, In{Left: intConst(2), List: []Expr{intConst(1), intConst(2)}})
	if got.Int() != 1 {
		t.Fatalf("2 IN (1,2) = %s", got)
	}
	got = mustEval(t, In{Left: intConst(3), List: []Expr{intConst(1), nullConst()}})
	if !got.IsNull() {
		t.Fatalf("3 IN (1,NULL) = %s, want NULL", got)
	}
	got = mustEval(t, In{Left: intConst(3), List: []Expr{intConst(1), intConst(2)}})
	if got.Int() != 0 {
		t.Fatalf("3 IN (1,2) = %s, want 0", got)
	}
	got = mustEval(t, In{Left: nullConst(), List: []Expr{intConst(1)}})
	if !got.IsNull() {
		t.Fatalf("NULL IN (1) = %s, want NULL", got)
	}
}

func TestEvalPostfix(t *testing.T) {
	cases := []struct {
		expr Expr
		op   string
		want int64
	}{
		{nullConst(), PostfixIsNull, 1},
		{intConst(1), PostfixIsNull, 0},
		{nullConst(), PostfixIsNotNull, 0},
		{intConst(0), PostfixIsTrue, 0},
		{intConst(2), PostfixIsTrue, 1},
		{nullConst(), PostfixIsTrue, 0},
		{intConst(0), PostfixIsFalse, 1},
		{nullConst(), PostfixIsFalse, 0},
	}
	for _, tc := range cases {
		got := mustEval(t, PostfixOp{Expr: tc.expr, Op: tc.op})
		if got.Int() != tc.want {
			t.Fatalf("(%s %s) = %s, want %d", BuildExpr(tc.expr), tc.op, got, tc.want)
		}
	}
}

func TestEvalCast(t *testing.T) {
	got := mustEval(t, Cast{Expr: strConst("12x"), Type: TypeLiteral{Type: schema.TypeInt}})
	if got.Int() != 12 {
		t.Fatalf("CAST('12x' AS SIGNED) = %s", got)
	}
	got = mustEval(t, Cast{Expr: intConst(7), Type: TypeLiteral{Type: schema.TypeVarchar}})
	if !got.IsString() || got.Str() != "7" {
		t.Fatalf("CAST(7 AS CHAR) = %s", got)
	}
	got = mustEval(t, Cast{Expr: nullConst(), Type: TypeLiteral{Type: schema.TypeInt}})
	if !got.IsNull() {
		t.Fatalf("CAST(NULL AS SIGNED) = %s", got)
	}
}

func TestEvalUnary(t *testing.T) {
	got := mustEval(t, UnaryOp{Op: "NOT", Expr: intConst(0)})
	if got.Int() != 1 {
		t.Fatalf("NOT 0 = %s", got)
	}
	got = mustEval(t, UnaryOp{Op: "-", Expr: intConst(4)})
	if got.Int() != -4 {
		t.Fatalf("-4 = %s", got)
	}
	got = mustEval(t, UnaryOp{Op: "NOT", Expr: nullConst()})
	if !got.IsNull() {
		t.Fatalf("NOT NULL = %s, want NULL", got)
	}
}

func TestEvalExistsAndSubquery(t *testing.T) {
	sq := &Subquery{SQL: "SELECT 3", Expected: IntValue(3), Rows: 1}
	if got := mustEval(t, sq); got.Int() != 3 {
		t.Fatalf("subquery = %s", got)
	}
	if got := mustEval(t, Exists{Query: sq}); got.Int() != 1 {
		t.Fatalf("EXISTS = %s", got)
	}
	empty := &Subquery{SQL: "SELECT 3 FROM DUAL WHERE FALSE", Expected: NullValue(), Rows: 0}
	if got := mustEval(t, Exists{Query: empty}); got.Int() != 0 {
		t.Fatalf("EXISTS over empty = %s", got)
	}
}

func TestEvalColumnValueUsesStoredValue(t *testing.T) {
	cv := ColumnValue{Table: "t0", Name: "c1", Type: schema.TypeInt, Value: IntValue(11)}
	if got := mustEval(t, cv); got.Int() != 11 {
		t.Fatalf("column value = %s", got)
	}
}

func TestDiscardOnLeadingNewlineOrPeriod(t *testing.T) {
	cases := []string{"\nx", ".5", "  \nx", " \t.x"}
	for _, s := range cases {
		_, err := Eval(Constant{Value: StringValue(s)})
		if !errors.Is(err, ErrUnpredictable) {
			t.Fatalf("expected discard for %q, got %v", s, err)
		}
	}
	// Leading spaces and tabs alone are fine.
	if _, err := Eval(Constant{Value: StringValue("  x")}); err != nil {
		t.Fatalf("unexpected discard: %v", err)
	}
}

func TestDiscardPropagatesThroughFunctions(t *testing.T) {
	_, err := Eval(FuncCall{Func: FuncCoalesce, Args: []Expr{nullConst(), strConst(".x")}})
	if !errors.Is(err, ErrUnpredictable) {
		t.Fatalf("expected discard, got %v", err)
	}
}

func TestEvalCollateAndOrdering(t *testing.T) {
	collated := Collate{
		Expr:      Cast{Expr: intConst(7), Type: TypeLiteral{Type: schema.TypeVarchar}},
		Collation: "utf8mb4_general_ci",
	}
	got := mustEval(t, collated)
	if !got.IsString() || got.Str() != "7" {
		t.Fatalf("collated cast = %s", got)
	}
	if sql := BuildExpr(collated); sql != "(CAST(7 AS CHAR) COLLATE utf8mb4_general_ci)" {
		t.Fatalf("collate sql = %s", sql)
	}
	term := OrderingTerm{Expr: intConst(3), Desc: true}
	if got := mustEval(t, term); got.Int() != 3 {
		t.Fatalf("ordering term = %s", got)
	}
	if sql := BuildExpr(term); sql != "3 DESC" {
		t.Fatalf("ordering sql = %s", sql)
	}
}
