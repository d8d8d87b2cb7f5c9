package ast

import "strings"

// Trace renders every node of the expression tree in pre-order, pairing each
// node's SQL form with its predicted value. The result is attached to bug
// reports so a mismatch can be narrowed to the first wrong subexpression.
// Traversal is side-effect free and repeatable.
func Trace(root Expr) string {
	var sb strings.Builder
	traceNode(&sb, root)
	return sb.String()
}

func traceNode(sb *strings.Builder, e Expr) {
	printNode(sb, e)
	switch n := e.(type) {
	case Constant, ColumnValue, *Subquery:
	case TypeLiteral:
	case UnaryOp:
		traceNode(sb, n.Expr)
	case BinaryOp:
		traceNode(sb, n.Left)
		traceNode(sb, n.Right)
	case Comparison:
		traceNode(sb, n.Left)
		traceNode(sb, n.Right)
	case Logical:
		traceNode(sb, n.Left)
		traceNode(sb, n.Right)
	case PostfixOp:
		traceNode(sb, n.Expr)
	case Collate:
		traceNode(sb, n.Expr)
	case Cast:
		traceNode(sb, n.Expr)
	case Between:
		traceNode(sb, n.Expr)
		traceNode(sb, n.Low)
		traceNode(sb, n.High)
	case In:
		traceNode(sb, n.Left)
		for _, item := range n.List {
			traceNode(sb, item)
		}
	case Exists:
	case JoinOn:
		traceNode(sb, n.On)
	case OrderingTerm:
		traceNode(sb, n.Expr)
	case FuncCall:
		for _, arg := range n.Args {
			traceNode(sb, arg)
		}
	}
}

func printNode(sb *strings.Builder, e Expr) {
	if _, ok := e.(TypeLiteral); ok {
		// Bare type literals carry no value of their own.
		return
	}
	sb.WriteString(BuildExpr(e))
	sb.WriteString(" -- ")
	if v, err := Eval(e); err != nil {
		sb.WriteString("<discarded>")
	} else {
		sb.WriteString(v.String())
	}
	sb.WriteString("\n")
}
