package ast

import (
	"testing"

	"augur/internal/schema"
)

func TestMostGeneralTypeVarcharDominates(t *testing.T) {
	cases := [][]Expr{
		{strConst("a"), intConst(1), intConst(2)},
		{intConst(1), strConst("a"), intConst(2)},
		{intConst(1), intConst(2), strConst("a")},
	}
	for i, exprs := range cases {
		got, err := MostGeneralType(exprs...)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if got != schema.TypeVarchar {
			t.Fatalf("case %d: got %s, want VARCHAR", i, got)
		}
	}
}

func TestMostGeneralTypeAllInts(t *testing.T) {
	got, err := MostGeneralType(intConst(1), nullConst(), intConst(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != schema.TypeInt {
		t.Fatalf("got %s, want INT", got)
	}
}

func TestMostGeneralTypeReadsColumnDeclaredType(t *testing.T) {
	// A bare column reference contributes its declared type even when its
	// current value is NULL.
	cv := ColumnValue{Name: "c0", Type: schema.TypeVarchar, Value: NullValue()}
	got, err := MostGeneralType(intConst(1), cv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != schema.TypeVarchar {
		t.Fatalf("got %s, want VARCHAR", got)
	}
}

func TestCastToMostGeneralTypeNullPassesThrough(t *testing.T) {
	got, err := CastToMostGeneralType(NullValue(), strConst("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsNull() {
		t.Fatalf("got %s, want NULL", got)
	}
}

func TestCastToMostGeneralType(t *testing.T) {
	got, err := CastToMostGeneralType(IntValue(5), strConst("a"), intConst(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsString() || got.Str() != "5" {
		t.Fatalf("got %s, want '5'", got)
	}
	got, err = CastToMostGeneralType(StringValue("8b"), intConst(1), intConst(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsString() || got.Int() != 8 {
		t.Fatalf("got %s, want 8", got)
	}
}
