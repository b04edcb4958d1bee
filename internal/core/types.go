// Package core provides the CSV to SQL transformation pipeline.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"fmt"
	"strings"
)

// ColumnType is the declared type of a column. The set is closed: each type
// maps to exactly one coercion rule and one literal rendering rule.
type ColumnType string

const (
	TypeText ColumnType = "text"
	TypeInt  ColumnType = "int"
	TypeBool ColumnType = "bool"
)

// ColumnTypes lists every supported type in display order.
var ColumnTypes = []ColumnType{TypeText, TypeInt, TypeBool}

// ParseColumnType converts a user supplied tag into a ColumnType.
// Matching is case-insensitive; an unrecognised tag is ErrUnknownColumnType.
func ParseColumnType(s string) (ColumnType, error) {
	t := ColumnType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeText, TypeInt, TypeBool:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumnType, s)
}

func (t ColumnType) String() string { return string(t) }

// Row is one parsed record keyed by field name. Its key set is exactly the
// field list of the ParseResult it belongs to.
type Row map[string]string

// ParseError records a problem with a single record. It never invalidates
// other rows.
type ParseError struct {
	Row     int      `json:"row"`           // Zero-based row ordinal, -1 for the header
	Line    int      `json:"line"`          // 1-based line where the record starts
	Message string   `json:"message"`       // Human-readable description
	Raw     []string `json:"raw,omitempty"` // Cells as read, when available
}

func (e ParseError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("header: %s", e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row+1, e.Message)
}

// ParseResult is the full output of Parse. Rows[i] is the row with ordinal i.
type ParseResult struct {
	Fields    []string     `json:"fields"`
	Rows      []Row        `json:"rows"`
	Errors    []ParseError `json:"errors"`
	Delimiter rune         `json:"-"`
}

// Empty reports whether nothing was parsed.
func (r ParseResult) Empty() bool {
	return len(r.Fields) == 0
}

// ColumnConfig is the user's choice for one parsed field.
type ColumnConfig struct {
	TargetName string     `json:"name" yaml:"name"`       // SQL column name
	Type       ColumnType `json:"type" yaml:"type"`       // Declared type
	Include    bool       `json:"include" yaml:"include"` // Emit this column
}

// ColumnConfigs maps field name to its configuration.
type ColumnConfigs map[string]ColumnConfig

// Clone returns an independent copy.
func (c ColumnConfigs) Clone() ColumnConfigs {
	out := make(ColumnConfigs, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// SQLInput is what Assemble hands to Render: the included column names in
// field order and one pre-rendered tuple per row, in row order.
type SQLInput struct {
	Columns []string
	Tuples  []string
}
