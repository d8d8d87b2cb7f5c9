// Package ast models SQL expression trees and predicts, without running any
// SQL, the value each expression must evaluate to under MySQL semantics.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags the variants of a Value.
type ValueKind int

// Value kinds.
const (
	KindNull ValueKind = iota
	KindInt
	KindString
)

// Value is an immutable NULL-aware scalar. The zero value is NULL.
type Value struct {
	kind ValueKind
	i    int64
	s    string
}

// NullValue returns the NULL scalar.
func NullValue() Value {
	return Value{kind: KindNull}
}

// IntValue returns a signed integer scalar.
func IntValue(n int64) Value {
	return Value{kind: KindInt, i: n}
}

// StringValue returns a text scalar.
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// Kind returns the value's variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsString reports whether the value is text.
func (v Value) IsString() bool { return v.kind == KindString }

// Int returns the integer payload. Only meaningful for KindInt.
func (v Value) Int() int64 { return v.i }

// Str returns the text payload. Only meaningful for KindString.
func (v Value) Str() string { return v.s }

// CastSigned casts the value to a signed integer. NULL propagates.
// Text casts follow MySQL: leading whitespace is skipped, then the longest
// signed digit prefix is parsed; no digits means 0.
func (v Value) CastSigned() Value {
	switch v.kind {
	case KindNull:
		return NullValue()
	case KindInt:
		return v
	case KindString:
		return IntValue(parseLeadingInt(v.s))
	default:
		panic(fmt.Sprintf("ast: unhandled value kind %d", v.kind))
	}
}

// CastText casts the value to text. NULL propagates.
func (v Value) CastText() Value {
	switch v.kind {
	case KindNull:
		return NullValue()
	case KindInt:
		return StringValue(strconv.FormatInt(v.i, 10))
	case KindString:
		return v
	default:
		panic(fmt.Sprintf("ast: unhandled value kind %d", v.kind))
	}
}

// AsBoolNotNull converts a non-NULL value per three-valued logic: zero and
// text without a numeric prefix are false, everything else true. Calling it
// on NULL is a caller bug; check IsNull first.
func (v Value) AsBoolNotNull() bool {
	if v.kind == KindNull {
		panic("ast: AsBoolNotNull called on NULL")
	}
	return v.CastSigned().Int() != 0
}

// String renders the value the way it appears in traces and reports.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return "'" + strings.ReplaceAll(v.s, "'", "''") + "'"
	default:
		panic(fmt.Sprintf("ast: unhandled value kind %d", v.kind))
	}
}

func parseLeadingInt(s string) int64 {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[start:i], 10, 64)
	if err != nil {
		// Digit prefix overflowed int64; MySQL saturates.
		if s[start] == '-' {
			return -1 << 63
		}
		return 1<<63 - 1
	}
	return n
}
