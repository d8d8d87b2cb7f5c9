package ast

import "strings"

// SQLBuilder assembles SQL text for expression trees.
type SQLBuilder struct {
	sb strings.Builder
}

// Write appends raw SQL text to the builder.
func (b *SQLBuilder) Write(s string) {
	b.sb.WriteString(s)
}

// String returns the assembled SQL text.
func (b *SQLBuilder) String() string {
	return b.sb.String()
}

// BuildExpr renders a single expression to SQL text.
func BuildExpr(e Expr) string {
	var b SQLBuilder
	e.Build(&b)
	return b.String()
}
