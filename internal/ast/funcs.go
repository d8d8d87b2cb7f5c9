package ast

import (
	"math"
	"math/bits"
)

// Function describes one registered SQL function: its name, minimum arity,
// whether it accepts extra arguments, and the rule that maps evaluated
// argument scalars (plus the original argument expressions, needed for
// result-type resolution) to the predicted result.
type Function struct {
	Name     string
	MinArgs  int
	Variadic bool
	Apply    func(args []Value, orig []Expr) (Value, error)
}

// The registry is closed: every function the generator may emit is listed
// here. Descriptors are immutable and safe for concurrent use.
var (
	FuncAbs = &Function{
		Name:    "ABS",
		MinArgs: 1,
		Apply: func(args []Value, _ []Expr) (Value, error) {
			if args[0].IsNull() {
				return NullValue(), nil
			}
			n := args[0].CastSigned().Int()
			// math.MinInt64 has no positive counterpart; MySQL's BIGINT
			// ABS keeps it unchanged under two's complement.
			if n == math.MinInt64 {
				return IntValue(n), nil
			}
			if n < 0 {
				n = -n
			}
			return IntValue(n), nil
		},
	}

	FuncBitCount = &Function{
		Name:    "BIT_COUNT",
		MinArgs: 1,
		Apply: func(args []Value, _ []Expr) (Value, error) {
			if args[0].IsNull() {
				return NullValue(), nil
			}
			n := args[0].CastSigned().Int()
			return IntValue(int64(bits.OnesCount64(uint64(n)))), nil
		},
	}

	FuncBenchmark = &Function{
		Name:    "BENCHMARK",
		MinArgs: 2,
		Apply: func(args []Value, _ []Expr) (Value, error) {
			if args[0].IsNull() {
				return NullValue(), nil
			}
			if args[0].CastSigned().Int() < 0 {
				return NullValue(), nil
			}
			return IntValue(0), nil
		},
	}

	FuncCoalesce = &Function{
		Name:     "COALESCE",
		MinArgs:  2,
		Variadic: true,
		Apply: func(args []Value, orig []Expr) (Value, error) {
			result := NullValue()
			for _, arg := range args {
				if !arg.IsNull() {
					result = arg.CastText()
					break
				}
			}
			return CastToMostGeneralType(result, orig...)
		},
	}

	FuncIf = &Function{
		Name:    "IF",
		MinArgs: 3,
		Apply: func(args []Value, orig []Expr) (Value, error) {
			cond := args[0]
			var result Value
			if cond.IsNull() || !cond.AsBoolNotNull() {
				result = args[2]
			} else {
				result = args[1]
			}
			// The condition's type never participates in the result type.
			return CastToMostGeneralType(result, orig[1], orig[2])
		},
	}

	FuncIfNull = &Function{
		Name:    "IFNULL",
		MinArgs: 2,
		Apply: func(args []Value, orig []Expr) (Value, error) {
			var result Value
			if args[0].IsNull() {
				result = args[1]
			} else {
				result = args[0]
			}
			return CastToMostGeneralType(result, orig...)
		},
	}
)

// Functions enumerates the closed registry in a fixed order.
var Functions = []*Function{
	FuncAbs,
	FuncBitCount,
	FuncBenchmark,
	FuncCoalesce,
	FuncIf,
	FuncIfNull,
}

// LookupFunction returns the descriptor for name, or nil if unregistered.
func LookupFunction(name string) *Function {
	for _, f := range Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}
