package ast

import (
	"math"
	"testing"
)

func call(t *testing.T, f *Function, args ...Expr) Value {
	t.Helper()
	v, err := Eval(FuncCall{Func: f, Args: args})
	if err != nil {
		t.Fatalf("%s returned error: %v", f.Name, err)
	}
	return v
}

func intConst(n int64) Expr  { return Constant{Value: IntValue(n)} }
func strConst(s string) Expr { return Constant{Value: StringValue(s)} }
func nullConst() Expr        { return Constant{Value: NullValue()} }

func TestAbs(t *testing.T) {
	if got := call(t, FuncAbs, intConst(-9)); got.Int() != 9 {
		t.Fatalf("ABS(-9) = %s", got)
	}
	if got := call(t, FuncAbs, intConst(9)); got.Int() != 9 {
		t.Fatalf("ABS(9) = %s", got)
	}
	if got := call(t, FuncAbs, nullConst()); !got.IsNull() {
		t.Fatalf("ABS(NULL) = %s", got)
	}
}

func TestAbsMinInt64KeepsValue(t *testing.T) {
	got := call(t, FuncAbs, intConst(math.MinInt64))
	if got.Int() != math.MinInt64 {
		t.Fatalf("ABS(MinInt64) = %d, want MinInt64", got.Int())
	}
}

func TestBitCount(t *testing.T) {
	cases := []struct {
		in   int64
		want int64
	}{
		{5, 2},
		{0, 0},
		{-1, 64},
		{1 << 40, 1},
	}
	for _, tc := range cases {
		if got := call(t, FuncBitCount, intConst(tc.in)); got.Int() != tc.want {
			t.Fatalf("BIT_COUNT(%d) = %s, want %d", tc.in, got, tc.want)
		}
	}
	if got := call(t, FuncBitCount, nullConst()); !got.IsNull() {
		t.Fatalf("BIT_COUNT(NULL) = %s", got)
	}
}

func TestBenchmark(t *testing.T) {
	if got := call(t, FuncBenchmark, nullConst(), intConst(1)); !got.IsNull() {
		t.Fatalf("BENCHMARK(NULL, 1) = %s", got)
	}
	if got := call(t, FuncBenchmark, intConst(-2), intConst(1)); !got.IsNull() {
		t.Fatalf("BENCHMARK(-2, 1) = %s", got)
	}
	if got := call(t, FuncBenchmark, intConst(10), intConst(1)); got.Int() != 0 {
		t.Fatalf("BENCHMARK(10, 1) = %s", got)
	}
}

func TestCoalesce(t *testing.T) {
	if got := call(t, FuncCoalesce, nullConst(), nullConst()); !got.IsNull() {
		t.Fatalf("COALESCE(NULL, NULL) = %s", got)
	}
	got := call(t, FuncCoalesce, nullConst(), strConst("x"))
	if !got.IsString() || got.Str() != "x" {
		t.Fatalf("COALESCE(NULL, 'x') = %s", got)
	}
}

func TestCoalesceResultTypeUsesAllBranches(t *testing.T) {
	// The selected branch is an integer, but a later text branch forces the
	// result to VARCHAR.
	got := call(t, FuncCoalesce, intConst(7), strConst("y"))
	if !got.IsString() || got.Str() != "7" {
		t.Fatalf("COALESCE(7, 'y') = %s, want '7'", got)
	}
}

func TestIf(t *testing.T) {
	if got := call(t, FuncIf, nullConst(), intConst(1), intConst(2)); got.Int() != 2 {
		t.Fatalf("IF(NULL, 1, 2) = %s", got)
	}
	if got := call(t, FuncIf, intConst(0), intConst(1), intConst(2)); got.Int() != 2 {
		t.Fatalf("IF(0, 1, 2) = %s", got)
	}
	if got := call(t, FuncIf, intConst(1), intConst(1), intConst(2)); got.Int() != 1 {
		t.Fatalf("IF(1, 1, 2) = %s", got)
	}
}

func TestIfResultTypeIgnoresCondition(t *testing.T) {
	// Text condition, integer branches: result stays INT.
	got := call(t, FuncIf, strConst("1"), intConst(3), intConst(4))
	if got.IsString() || got.Int() != 3 {
		t.Fatalf("IF('1', 3, 4) = %s, want 3", got)
	}
	// Unselected text branch still widens the result to VARCHAR.
	got = call(t, FuncIf, intConst(1), intConst(3), strConst("z"))
	if !got.IsString() || got.Str() != "3" {
		t.Fatalf("IF(1, 3, 'z') = %s, want '3'", got)
	}
}

func TestIfNull(t *testing.T) {
	if got := call(t, FuncIfNull, nullConst(), intConst(5)); got.Int() != 5 {
		t.Fatalf("IFNULL(NULL, 5) = %s", got)
	}
	if got := call(t, FuncIfNull, intConst(3), intConst(5)); got.Int() != 3 {
		t.Fatalf("IFNULL(3, 5) = %s", got)
	}
}

func TestLookupFunction(t *testing.T) {
	for _, f := range Functions {
		if LookupFunction(f.Name) != f {
			t.Fatalf("lookup failed for %s", f.Name)
		}
	}
	if LookupFunction("NO_SUCH_FN") != nil {
		t.Fatalf("expected nil for unregistered name")
	}
}

func TestFunctionNullAbsorption(t *testing.T) {
	// Functions with NULL-propagating first arguments return NULL.
	for _, f := range []*Function{FuncAbs, FuncBitCount, FuncBenchmark} {
		args := make([]Expr, f.MinArgs)
		args[0] = nullConst()
		for i := 1; i < f.MinArgs; i++ {
			args[i] = intConst(1)
		}
		if got := call(t, f, args...); !got.IsNull() {
			t.Fatalf("%s with NULL first arg = %s, want NULL", f.Name, got)
		}
	}
}
