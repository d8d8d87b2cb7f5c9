package ast

import (
	"fmt"

	"augur/internal/schema"
)

// Expr is a node of a SQL expression tree. Nodes own their children; a tree
// is finite and acyclic by construction.
type Expr interface {
	Build(b *SQLBuilder)
}

// Constant is a literal scalar.
type Constant struct {
	Value Value
}

// Build emits the literal as SQL text.
func (e Constant) Build(b *SQLBuilder) {
	b.Write(e.Value.String())
}

// ColumnValue is a column reference bound to the value the referenced column
// holds in the current pivot row. Type is the column's declared type.
type ColumnValue struct {
	Table string
	Name  string
	Type  schema.ColumnType
	Value Value
}

// Build emits the qualified column reference.
func (e ColumnValue) Build(b *SQLBuilder) {
	if e.Table == "" {
		b.Write(e.Name)
		return
	}
	b.Write(fmt.Sprintf("%s.%s", e.Table, e.Name))
}

// UnaryOp is a prefix operator (NOT, -, +).
type UnaryOp struct {
	Op   string
	Expr Expr
}

// Build emits the unary expression.
func (e UnaryOp) Build(b *SQLBuilder) {
	b.Write("(")
	b.Write(e.Op)
	b.Write(" ")
	e.Expr.Build(b)
	b.Write(")")
}

// BinaryOp is an arithmetic operator over signed integers (+, -, *).
type BinaryOp struct {
	Left  Expr
	Op    string
	Right Expr
}

// Build emits the binary expression with parentheses.
func (e BinaryOp) Build(b *SQLBuilder) {
	b.Write("(")
	e.Left.Build(b)
	b.Write(" ")
	b.Write(e.Op)
	b.Write(" ")
	e.Right.Build(b)
	b.Write(")")
}

// Comparison is a binary comparison (=, !=, <, <=, >, >=).
type Comparison struct {
	Left  Expr
	Op    string
	Right Expr
}

// Build emits the comparison with parentheses.
func (e Comparison) Build(b *SQLBuilder) {
	b.Write("(")
	e.Left.Build(b)
	b.Write(" ")
	b.Write(e.Op)
	b.Write(" ")
	e.Right.Build(b)
	b.Write(")")
}

// Logical is AND/OR under three-valued logic.
type Logical struct {
	Left  Expr
	Op    string
	Right Expr
}

// Build emits the logical expression with parentheses.
func (e Logical) Build(b *SQLBuilder) {
	b.Write("(")
	e.Left.Build(b)
	b.Write(" ")
	b.Write(e.Op)
	b.Write(" ")
	e.Right.Build(b)
	b.Write(")")
}

// Postfix operators supported by PostfixOp.
const (
	PostfixIsNull    = "IS NULL"
	PostfixIsNotNull = "IS NOT NULL"
	PostfixIsTrue    = "IS TRUE"
	PostfixIsFalse   = "IS FALSE"
)

// PostfixOp is a postfix predicate such as IS NULL.
type PostfixOp struct {
	Expr Expr
	Op   string
}

// Build emits the postfix predicate.
func (e PostfixOp) Build(b *SQLBuilder) {
	b.Write("(")
	e.Expr.Build(b)
	b.Write(" ")
	b.Write(e.Op)
	b.Write(")")
}

// Collate attaches a collation to an expression. The predicted value is the
// operand's value; collation only affects engine-side ordering.
type Collate struct {
	Expr      Expr
	Collation string
}

// Build emits the COLLATE expression.
func (e Collate) Build(b *SQLBuilder) {
	b.Write("(")
	e.Expr.Build(b)
	b.Write(" COLLATE ")
	b.Write(e.Collation)
	b.Write(")")
}

// TypeLiteral names a cast target type. It is not a value-producing node.
type TypeLiteral struct {
	Type schema.ColumnType
}

// Build emits the CAST target type name.
func (e TypeLiteral) Build(b *SQLBuilder) {
	switch e.Type {
	case schema.TypeInt:
		b.Write("SIGNED")
	case schema.TypeVarchar:
		b.Write("CHAR")
	default:
		panic(fmt.Sprintf("ast: unhandled cast type %d", e.Type))
	}
}

// Cast converts an expression to a target type.
type Cast struct {
	Expr Expr
	Type TypeLiteral
}

// Build emits the CAST expression.
func (e Cast) Build(b *SQLBuilder) {
	b.Write("CAST(")
	e.Expr.Build(b)
	b.Write(" AS ")
	e.Type.Build(b)
	b.Write(")")
}

// Between is the ternary BETWEEN predicate.
type Between struct {
	Expr Expr
	Low  Expr
	High Expr
}

// Build emits the BETWEEN predicate.
func (e Between) Build(b *SQLBuilder) {
	b.Write("(")
	e.Expr.Build(b)
	b.Write(" BETWEEN ")
	e.Low.Build(b)
	b.Write(" AND ")
	e.High.Build(b)
	b.Write(")")
}

// In is the IN predicate over an explicit value list.
type In struct {
	Left Expr
	List []Expr
}

// Build emits the IN predicate.
func (e In) Build(b *SQLBuilder) {
	b.Write("(")
	e.Left.Build(b)
	b.Write(" IN (")
	for i, item := range e.List {
		if i > 0 {
			b.Write(", ")
		}
		item.Build(b)
	}
	b.Write("))")
}

// Subquery is a scalar subquery whose result the generator knows statically.
// SQL carries the rendered subquery text; Expected its scalar result; Rows
// how many rows it yields.
type Subquery struct {
	SQL      string
	Expected Value
	Rows     int
}

// Build emits the parenthesized subquery text.
func (e *Subquery) Build(b *SQLBuilder) {
	b.Write("(")
	b.Write(e.SQL)
	b.Write(")")
}

// Exists is the EXISTS predicate over a subquery.
type Exists struct {
	Query *Subquery
}

// Build emits the EXISTS predicate.
func (e Exists) Build(b *SQLBuilder) {
	b.Write("EXISTS (")
	b.Write(e.Query.SQL)
	b.Write(")")
}

// JoinOn is a join clause; only its ON condition participates in prediction.
type JoinOn struct {
	Type  string
	Table string
	On    Expr
}

// Build emits the join clause.
func (e JoinOn) Build(b *SQLBuilder) {
	b.Write(e.Type)
	b.Write(" ")
	b.Write(e.Table)
	b.Write(" ON ")
	e.On.Build(b)
}

// OrderingTerm is an ORDER BY item.
type OrderingTerm struct {
	Expr Expr
	Desc bool
}

// Build emits the ordering term.
func (e OrderingTerm) Build(b *SQLBuilder) {
	e.Expr.Build(b)
	if e.Desc {
		b.Write(" DESC")
	}
}

// FuncCall invokes a registered function.
type FuncCall struct {
	Func *Function
	Args []Expr
}

// Build emits the function call.
func (e FuncCall) Build(b *SQLBuilder) {
	b.Write(e.Func.Name)
	b.Write("(")
	for i, arg := range e.Args {
		if i > 0 {
			b.Write(", ")
		}
		arg.Build(b)
	}
	b.Write(")")
}
