package core

// convert.go holds the coercion rules that turn raw CSV cells into typed
// values, and the SQL literal rendering for each type.
//
// Coercion is strict: a cell either converts or fails with one of the
// coercion sentinels. Nothing falls back to a default value.
//
// The int rule keeps only ASCII digits before parsing. "$1,234" becomes 1234,
// but so does "-1,234", and "12.50" becomes 1250. Minus signs and decimal
// points are discarded along with every other non-digit.

import (
	"strconv"
	"strings"
)

// Value is a coerced cell.
type Value struct {
	Type ColumnType
	Text string
	Int  int64
	Bool bool
}

// Literal renders the value as SQL: text quoted with embedded quotes doubled,
// integers as bare digits, booleans as the true/false keywords.
func (v Value) Literal() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(v.Int, 10)
	case TypeBool:
		return strconv.FormatBool(v.Bool)
	default:
		return "'" + v.Text + "'"
	}
}

// Any returns the native Go value, used for JSON output.
func (v Value) Any() any {
	switch v.Type {
	case TypeInt:
		return v.Int
	case TypeBool:
		return v.Bool
	default:
		return v.Text
	}
}

// EscapeText trims s and doubles every single quote so the result can sit
// between single quotes in a SQL string literal.
func EscapeText(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "'", "''")
}

// CoerceText never fails. Value.Text holds the escaped body.
func CoerceText(raw string) (Value, error) {
	return Value{Type: TypeText, Text: EscapeText(raw)}, nil
}

// CoerceInt strips every non-digit and parses what is left.
// Nothing left, or more digits than an int64 holds, is ErrInvalidInteger.
func CoerceInt(raw string) (Value, error) {
	digits := DigitsOnly(raw)
	if digits == "" {
		return Value{}, ErrInvalidInteger
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Value{}, ErrInvalidInteger
	}
	return Value{Type: TypeInt, Int: n}, nil
}

// CoerceBool accepts exactly "true" or "false" after trimming and lowercasing.
func CoerceBool(raw string) (Value, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return Value{Type: TypeBool, Bool: true}, nil
	case "false":
		return Value{Type: TypeBool, Bool: false}, nil
	}
	return Value{}, ErrInvalidBoolean
}

// DigitsOnly returns the ASCII digits of s in order.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// CoerceLiteral coerces raw with the rule for t and renders it as SQL.
func CoerceLiteral(t ColumnType, raw string) (string, error) {
	coerce, err := GetCoercer(t)
	if err != nil {
		return "", err
	}
	v, err := coerce(raw)
	if err != nil {
		return "", err
	}
	return v.Literal(), nil
}
