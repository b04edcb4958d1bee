package core

// parse.go turns pasted delimited text into fields, rows and per-row errors.
//
// Parsing is best-effort. A bad record is reported as a ParseError and the
// parser moves on to the next line. Every record, good or bad, still takes
// its ordinal position in Rows so that ParseError.Row indexes into Rows.
//
// Header policy:
//   - header cells are trimmed
//   - an empty header cell is named column_<n>, n being its 1-based position
//   - a repeated name gets _1, _2, ... appended until it is unique

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Delimiters tried by auto-detection, in tie-break order.
var candidateDelimiters = []rune{',', '\t', ';', '|'}

// ParseOptions controls Parse. The zero value auto-detects the delimiter.
type ParseOptions struct {
	Delimiter rune
}

// Parse reads text with its first record as the header row.
// Empty or whitespace-only text yields an empty result with no errors.
func Parse(text string, opts ParseOptions) ParseResult {
	text = SanitizeInput(text)
	if strings.TrimSpace(text) == "" {
		return ParseResult{}
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(text)
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1

	res := ParseResult{Delimiter: delim}

	header, err := r.Read()
	if err != nil && len(header) == 0 {
		if !errors.Is(err, io.EOF) {
			res.Errors = append(res.Errors, ParseError{Row: -1, Line: 1, Message: describeCSVError(err)})
		}
		return res
	}
	if err != nil {
		res.Errors = append(res.Errors, ParseError{Row: -1, Line: 1, Message: describeCSVError(err), Raw: header})
	}
	res.Fields = HeaderNames(header)

	for ordinal := 0; ; ordinal++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.StartLine
			}
			res.Errors = append(res.Errors, ParseError{
				Row:     ordinal,
				Line:    line,
				Message: describeCSVError(err),
				Raw:     record,
			})
			res.Rows = append(res.Rows, buildRow(res.Fields, record))
			continue
		}

		line, _ := r.FieldPos(0)
		switch {
		case len(record) < len(res.Fields):
			res.Errors = append(res.Errors, ParseError{
				Row:     ordinal,
				Line:    line,
				Message: fmt.Sprintf("too few fields: expected %d, got %d", len(res.Fields), len(record)),
				Raw:     record,
			})
		case len(record) > len(res.Fields):
			res.Errors = append(res.Errors, ParseError{
				Row:     ordinal,
				Line:    line,
				Message: fmt.Sprintf("too many fields: expected %d, got %d", len(res.Fields), len(record)),
				Raw:     record,
			})
		}
		res.Rows = append(res.Rows, buildRow(res.Fields, record))
	}

	return res
}

// buildRow keys record by fields. Missing cells are empty, extra cells dropped.
func buildRow(fields, record []string) Row {
	row := make(Row, len(fields))
	for i, f := range fields {
		if i < len(record) {
			row[f] = record[i]
		} else {
			row[f] = ""
		}
	}
	return row
}

// HeaderNames applies the header policy to raw header cells.
func HeaderNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))

	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if seen[name] {
			base := name
			for n := 1; seen[name]; n++ {
				name = fmt.Sprintf("%s_%d", base, n)
			}
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

// DetectDelimiter picks the candidate that occurs most often, outside
// quotes, on the first non-blank line. Comma wins ties and the no-match case.
func DetectDelimiter(text string) rune {
	line := firstLine(text)

	counts := make(map[rune]int, len(candidateDelimiters))
	inQuotes := false
	for _, c := range line {
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[c]++
		}
	}

	best := candidateDelimiters[0]
	for _, d := range candidateDelimiters[1:] {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

// ParseDelimiter reads a user-supplied delimiter. "" and "auto" mean
// auto-detect and yield 0; "tab" and `\t` both mean a tab.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}

	r := []rune(s)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' || r[0] == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r[0], nil
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

// describeCSVError drops encoding/csv's position prefix; the position is
// carried separately on ParseError.
func describeCSVError(err error) string {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
