package core

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CTEName is the name of the common table expression wrapping the VALUES list.
const CTEName = "raw"

var (
	camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)
	nonWord       = regexp.MustCompile(`\W+`)
)

// Render builds the statement
//
//	WITH raw(c1, c2) AS (VALUES
//	  (t1),
//	  (t2)
//	)
//	SELECT *
//	FROM raw
//
// It does not validate SQL semantics; empty inputs still produce the shape.
func Render(columns, tuples []string) string {
	var b strings.Builder
	b.WriteString("WITH ")
	b.WriteString(CTEName)
	b.WriteString("(")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") AS (VALUES\n")
	for i, t := range tuples {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		b.WriteString(t)
	}
	b.WriteString("\n)\nSELECT *\nFROM ")
	b.WriteString(CTEName)
	return strings.TrimSpace(b.String())
}

// Generate assembles and renders in one step.
func Generate(fields []string, rows []Row, configs ColumnConfigs) (string, error) {
	in, err := Assemble(fields, rows, configs)
	if err != nil {
		return "", err
	}
	return Render(in.Columns, in.Tuples), nil
}

// NormalizeColumnName derives the default SQL name for a field:
// "First Name" and "firstName" both become "first_name".
func NormalizeColumnName(name string) string {
	s := strings.TrimSpace(name)
	s = camelBoundary.ReplaceAllString(s, "$1 $2")
	s = strings.ToLower(s)
	return nonWord.ReplaceAllString(s, "_")
}

// NormalizeColumnNameASCII folds accents before normalizing, so "Café" gives
// "cafe" instead of "caf_".
func NormalizeColumnNameASCII(name string) string {
	return NormalizeColumnName(foldAccents(name))
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
