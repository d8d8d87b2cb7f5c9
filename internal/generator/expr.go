package generator

import (
	"fmt"

	"augur/internal/ast"
	"augur/internal/schema"
	"augur/internal/util"
)

// PivotRow is one concrete row of a table; column references in generated
// trees are bound to its values so the whole tree is statically evaluable.
type PivotRow struct {
	Table  schema.Table
	Values map[string]ast.Value
}

var comparisonOps = []string{"=", "!=", "<", "<=", ">", ">="}

var arithmeticOps = []string{"+", "-", "*"}

var postfixOps = []string{
	ast.PostfixIsNull,
	ast.PostfixIsNotNull,
	ast.PostfixIsTrue,
	ast.PostfixIsFalse,
}

// RandomPredicate builds a random boolean-ish expression tree over the pivot
// row. The tree is finite, acyclic, and evaluable without touching the engine.
func (g *Generator) RandomPredicate(pivot *PivotRow) ast.Expr {
	return g.randomExpr(pivot, MaxExprDepth)
}

func (g *Generator) randomExpr(pivot *PivotRow, depth int) ast.Expr {
	if depth <= 0 {
		return g.randomLeaf(pivot)
	}
	switch g.Rand.Intn(10) {
	case 0:
		return ast.UnaryOp{
			Op:   pick(g, []string{"NOT", "-", "+"}),
			Expr: g.randomExpr(pivot, depth-1),
		}
	case 1:
		return ast.BinaryOp{
			Left:  g.randomExpr(pivot, depth-1),
			Op:    pick(g, arithmeticOps),
			Right: g.randomExpr(pivot, depth-1),
		}
	case 2:
		return ast.Comparison{
			Left:  g.randomExpr(pivot, depth-1),
			Op:    pick(g, comparisonOps),
			Right: g.randomExpr(pivot, depth-1),
		}
	case 3:
		return ast.Logical{
			Left:  g.randomExpr(pivot, depth-1),
			Op:    pick(g, []string{"AND", "OR"}),
			Right: g.randomExpr(pivot, depth-1),
		}
	case 4:
		return ast.PostfixOp{
			Expr: g.randomExpr(pivot, depth-1),
			Op:   pick(g, postfixOps),
		}
	case 5:
		return ast.Between{
			Expr: g.randomExpr(pivot, depth-1),
			Low:  g.randomExpr(pivot, depth-1),
			High: g.randomExpr(pivot, depth-1),
		}
	case 6:
		list := make([]ast.Expr, 1+g.Rand.Intn(InListMax))
		for i := range list {
			list[i] = g.randomExpr(pivot, depth-1)
		}
		return ast.In{Left: g.randomExpr(pivot, depth-1), List: list}
	case 7:
		return g.randomCast(pivot, depth)
	case 8:
		return g.randomFuncCall(pivot, depth)
	default:
		return g.randomLeaf(pivot)
	}
}

func (g *Generator) randomCast(pivot *PivotRow, depth int) ast.Expr {
	t := schema.TypeInt
	if g.Rand.Intn(2) == 0 {
		t = schema.TypeVarchar
	}
	cast := ast.Cast{
		Expr: g.randomExpr(pivot, depth-1),
		Type: ast.TypeLiteral{Type: t},
	}
	// COLLATE is only valid on string operands, so it rides on CHAR casts.
	if t == schema.TypeVarchar && util.Chance(g.Rand, CollateProb) {
		return ast.Collate{Expr: cast, Collation: "utf8mb4_general_ci"}
	}
	return cast
}

func (g *Generator) randomFuncCall(pivot *PivotRow, depth int) ast.Expr {
	fn := ast.Functions[g.Rand.Intn(len(ast.Functions))]
	arity := fn.MinArgs
	if fn.Variadic {
		arity += g.Rand.Intn(CoalesceArgsMax + 1)
	}
	args := make([]ast.Expr, arity)
	for i := range args {
		args[i] = g.randomExpr(pivot, depth-1)
	}
	return ast.FuncCall{Func: fn, Args: args}
}

func (g *Generator) randomLeaf(pivot *PivotRow) ast.Expr {
	if pivot != nil && util.Chance(g.Rand, LeafColumnProb) {
		col := pivot.Table.Columns[g.Rand.Intn(len(pivot.Table.Columns))]
		return ast.ColumnValue{
			Table: pivot.Table.Name,
			Name:  col.Name,
			Type:  col.Type,
			Value: pivot.Values[col.Name],
		}
	}
	if util.Chance(g.Rand, SubqueryLeafProb) {
		return g.randomSubquery()
	}
	return ast.Constant{Value: g.randomScalar()}
}

func (g *Generator) randomSubquery() *ast.Subquery {
	n := int64(g.Rand.Intn(LiteralIntMax))
	if util.Chance(g.Rand, SubqueryRowsProb) {
		return &ast.Subquery{
			SQL:      fmt.Sprintf("SELECT %d", n),
			Expected: ast.IntValue(n),
			Rows:     1,
		}
	}
	return &ast.Subquery{
		SQL:      fmt.Sprintf("SELECT %d FROM DUAL WHERE FALSE", n),
		Expected: ast.NullValue(),
		Rows:     0,
	}
}

func (g *Generator) randomScalar() ast.Value {
	if util.Chance(g.Rand, LeafNullProb) {
		return ast.NullValue()
	}
	if util.Chance(g.Rand, LeafStringProb) {
		return ast.StringValue(g.randomText())
	}
	n := int64(g.Rand.Intn(2*LiteralIntMax) - LiteralIntMax)
	return ast.IntValue(n)
}

const textAlphabet = "abcdefghij0123456789"

func (g *Generator) randomText() string {
	length := g.Rand.Intn(6)
	buf := make([]byte, 0, length+1)
	// Occasional leading whitespace exercises the engine's text trimming.
	if util.Chance(g.Rand, TextLeadingSpaceProb) {
		buf = append(buf, ' ')
	}
	for i := 0; i < length; i++ {
		buf = append(buf, textAlphabet[g.Rand.Intn(len(textAlphabet))])
	}
	return string(buf)
}

func (g *Generator) randomLiteral(col schema.Column) ast.Value {
	if col.Nullable && util.Chance(g.Rand, LeafNullProb) {
		return ast.NullValue()
	}
	if col.Type == schema.TypeVarchar {
		return ast.StringValue(g.randomText())
	}
	return ast.IntValue(int64(g.Rand.Intn(2*LiteralIntMax) - LiteralIntMax))
}

func pick(g *Generator, options []string) string {
	return options[g.Rand.Intn(len(options))]
}
