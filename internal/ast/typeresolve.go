package ast

import (
	"fmt"

	"augur/internal/schema"
)

// MostGeneralType resolves the least restrictive result type over a list of
// expressions. A bare column reference contributes its declared schema type
// without being evaluated; any other expression is evaluated and contributes
// its value's type. VARCHAR dominates: once seen it is never overridden.
func MostGeneralType(exprs ...Expr) (schema.ColumnType, error) {
	if len(exprs) == 0 {
		panic("ast: MostGeneralType requires at least one expression")
	}
	resolved := schema.TypeInt
	seeded := false
	for _, e := range exprs {
		var t schema.ColumnType
		if cv, ok := e.(ColumnValue); ok {
			t = cv.Type
		} else {
			v, err := Eval(e)
			if err != nil {
				return schema.TypeInt, err
			}
			// NULL carries no type and never dominates.
			if v.IsString() {
				t = schema.TypeVarchar
			} else {
				t = schema.TypeInt
			}
		}
		if !seeded {
			resolved = t
			seeded = true
			continue
		}
		if t == schema.TypeVarchar {
			resolved = schema.TypeVarchar
		}
	}
	return resolved, nil
}

// CastToMostGeneralType coerces a function result into the most general type
// of the candidate branch expressions. NULL has no type and passes through.
// A resolved type outside the coercion switch is a registry bug.
func CastToMostGeneralType(v Value, typeExprs ...Expr) (Value, error) {
	if v.IsNull() {
		return v, nil
	}
	t, err := MostGeneralType(typeExprs...)
	if err != nil {
		return NullValue(), err
	}
	switch t {
	case schema.TypeInt:
		return v.CastSigned(), nil
	case schema.TypeVarchar:
		return v.CastText(), nil
	default:
		panic(fmt.Sprintf("ast: unhandled most-general type %v", t))
	}
}
