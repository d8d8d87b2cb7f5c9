package ast

import (
	"fmt"
	"strings"

	"augur/internal/schema"

	"github.com/pkg/errors"
)

// ErrUnpredictable marks a test case the predictor cannot faithfully model.
// Callers discard the case and regenerate; it is never a bug report.
var ErrUnpredictable = errors.New("unpredictable expression value")

// IsUnpredictable reports whether err means the case should be discarded.
func IsUnpredictable(err error) bool {
	return errors.Is(err, ErrUnpredictable)
}

// Eval computes the value an expression must evaluate to. It is pure and
// deterministic for a fixed tree: repeated calls return identical values.
// The only error it returns is ErrUnpredictable (wrapped); malformed trees
// are caller bugs and panic.
func Eval(e Expr) (Value, error) {
	switch n := e.(type) {
	case Constant:
		return checkPredictableText(n.Value)
	case ColumnValue:
		return checkPredictableText(n.Value)
	case UnaryOp:
		return evalUnary(n)
	case BinaryOp:
		return evalBinary(n)
	case Comparison:
		return evalComparison(n)
	case Logical:
		return evalLogical(n)
	case PostfixOp:
		return evalPostfix(n)
	case Collate:
		return Eval(n.Expr)
	case Cast:
		v, err := Eval(n.Expr)
		if err != nil {
			return NullValue(), err
		}
		switch n.Type.Type {
		case schema.TypeInt:
			return v.CastSigned(), nil
		case schema.TypeVarchar:
			return v.CastText(), nil
		default:
			panic(fmt.Sprintf("ast: unhandled cast type %v", n.Type.Type))
		}
	case Between:
		return evalBetween(n)
	case In:
		return evalIn(n)
	case Exists:
		if n.Query.Rows > 0 {
			return IntValue(1), nil
		}
		return IntValue(0), nil
	case *Subquery:
		return n.Expected, nil
	case JoinOn:
		return Eval(n.On)
	case OrderingTerm:
		return Eval(n.Expr)
	case FuncCall:
		return evalFunc(n)
	default:
		panic(fmt.Sprintf("ast: expression %T has no predicted value", e))
	}
}

// checkPredictableText guards against a MySQL text-parsing bug: after leading
// spaces and tabs are trimmed, text starting with a newline or a period is
// evaluated inconsistently by affected server versions, so any prediction for
// it would be noise. See https://bugs.mysql.com/bug.php?id=95938.
func checkPredictableText(v Value) (Value, error) {
	if !v.IsString() {
		return v, nil
	}
	text := v.Str()
	for len(text) > 0 && (text[0] == ' ' || text[0] == '\t') {
		text = text[1:]
	}
	if len(text) > 0 && (text[0] == '\n' || text[0] == '.') {
		return NullValue(), errors.Wrapf(ErrUnpredictable, "text constant %q", v.Str())
	}
	return v, nil
}

func evalUnary(n UnaryOp) (Value, error) {
	v, err := Eval(n.Expr)
	if err != nil {
		return NullValue(), err
	}
	if v.IsNull() {
		return NullValue(), nil
	}
	switch n.Op {
	case "NOT":
		if v.AsBoolNotNull() {
			return IntValue(0), nil
		}
		return IntValue(1), nil
	case "-":
		return IntValue(-v.CastSigned().Int()), nil
	case "+":
		return v.CastSigned(), nil
	default:
		panic(fmt.Sprintf("ast: unhandled unary operator %q", n.Op))
	}
}

func evalBinary(n BinaryOp) (Value, error) {
	left, err := Eval(n.Left)
	if err != nil {
		return NullValue(), err
	}
	right, err := Eval(n.Right)
	if err != nil {
		return NullValue(), err
	}
	if left.IsNull() || right.IsNull() {
		return NullValue(), nil
	}
	l := left.CastSigned().Int()
	r := right.CastSigned().Int()
	switch n.Op {
	case "+":
		return IntValue(l + r), nil
	case "-":
		return IntValue(l - r), nil
	case "*":
		return IntValue(l * r), nil
	default:
		panic(fmt.Sprintf("ast: unhandled binary operator %q", n.Op))
	}
}

func evalComparison(n Comparison) (Value, error) {
	left, err := Eval(n.Left)
	if err != nil {
		return NullValue(), err
	}
	right, err := Eval(n.Right)
	if err != nil {
		return NullValue(), err
	}
	if left.IsNull() || right.IsNull() {
		return NullValue(), nil
	}
	cmp := compareValues(left, right)
	var result bool
	switch n.Op {
	case "=":
		result = cmp == 0
	case "!=", "<>":
		result = cmp != 0
	case "<":
		result = cmp < 0
	case "<=":
		result = cmp <= 0
	case ">":
		result = cmp > 0
	case ">=":
		result = cmp >= 0
	default:
		panic(fmt.Sprintf("ast: unhandled comparison operator %q", n.Op))
	}
	if result {
		return IntValue(1), nil
	}
	return IntValue(0), nil
}

// compareValues orders two non-NULL scalars. Two strings compare under a
// case-insensitive collation; any other pairing compares as signed integers.
func compareValues(left, right Value) int {
	if left.IsString() && right.IsString() {
		return strings.Compare(strings.ToLower(left.Str()), strings.ToLower(right.Str()))
	}
	l := left.CastSigned().Int()
	r := right.CastSigned().Int()
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func evalLogical(n Logical) (Value, error) {
	left, err := Eval(n.Left)
	if err != nil {
		return NullValue(), err
	}
	right, err := Eval(n.Right)
	if err != nil {
		return NullValue(), err
	}
	switch n.Op {
	case "AND":
		// FALSE dominates NULL.
		if !left.IsNull() && !left.AsBoolNotNull() {
			return IntValue(0), nil
		}
		if !right.IsNull() && !right.AsBoolNotNull() {
			return IntValue(0), nil
		}
		if left.IsNull() || right.IsNull() {
			return NullValue(), nil
		}
		return IntValue(1), nil
	case "OR":
		// TRUE dominates NULL.
		if !left.IsNull() && left.AsBoolNotNull() {
			return IntValue(1), nil
		}
		if !right.IsNull() && right.AsBoolNotNull() {
			return IntValue(1), nil
		}
		if left.IsNull() || right.IsNull() {
			return NullValue(), nil
		}
		return IntValue(0), nil
	default:
		panic(fmt.Sprintf("ast: unhandled logical operator %q", n.Op))
	}
}

func evalPostfix(n PostfixOp) (Value, error) {
	v, err := Eval(n.Expr)
	if err != nil {
		return NullValue(), err
	}
	boolInt := func(b bool) Value {
		if b {
			return IntValue(1)
		}
		return IntValue(0)
	}
	switch n.Op {
	case PostfixIsNull:
		return boolInt(v.IsNull()), nil
	case PostfixIsNotNull:
		return boolInt(!v.IsNull()), nil
	case PostfixIsTrue:
		return boolInt(!v.IsNull() && v.AsBoolNotNull()), nil
	case PostfixIsFalse:
		return boolInt(!v.IsNull() && !v.AsBoolNotNull()), nil
	default:
		panic(fmt.Sprintf("ast: unhandled postfix operator %q", n.Op))
	}
}

func evalBetween(n Between) (Value, error) {
	v, err := Eval(n.Expr)
	if err != nil {
		return NullValue(), err
	}
	low, err := Eval(n.Low)
	if err != nil {
		return NullValue(), err
	}
	high, err := Eval(n.High)
	if err != nil {
		return NullValue(), err
	}
	// x BETWEEN low AND high == (low <= x) AND (x <= high) under 3VL.
	lowOK := ternaryCompare(low, v)
	highOK := ternaryCompare(v, high)
	if lowOK == ternaryFalse || highOK == ternaryFalse {
		return IntValue(0), nil
	}
	if lowOK == ternaryNull || highOK == ternaryNull {
		return NullValue(), nil
	}
	return IntValue(1), nil
}

type ternary int

const (
	ternaryFalse ternary = iota
	ternaryTrue
	ternaryNull
)

// ternaryCompare evaluates left <= right with NULL propagation.
func ternaryCompare(left, right Value) ternary {
	if left.IsNull() || right.IsNull() {
		return ternaryNull
	}
	if compareValues(left, right) <= 0 {
		return ternaryTrue
	}
	return ternaryFalse
}

func evalIn(n In) (Value, error) {
	probe, err := Eval(n.Left)
	if err != nil {
		return NullValue(), err
	}
	if probe.IsNull() {
		return NullValue(), nil
	}
	sawNull := false
	for _, item := range n.List {
		v, err := Eval(item)
		if err != nil {
			return NullValue(), err
		}
		if v.IsNull() {
			sawNull = true
			continue
		}
		if compareValues(probe, v) == 0 {
			return IntValue(1), nil
		}
	}
	if sawNull {
		return NullValue(), nil
	}
	return IntValue(0), nil
}

func evalFunc(n FuncCall) (Value, error) {
	if len(n.Args) < n.Func.MinArgs {
		panic(fmt.Sprintf("ast: %s requires at least %d argument(s), got %d", n.Func.Name, n.Func.MinArgs, len(n.Args)))
	}
	args := make([]Value, len(n.Args))
	for i, arg := range n.Args {
		v, err := Eval(arg)
		if err != nil {
			return NullValue(), err
		}
		args[i] = v
	}
	return n.Func.Apply(args, n.Args)
}
