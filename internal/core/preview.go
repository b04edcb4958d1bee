package core

import (
	"encoding/json"
	"strconv"
)

// DefaultPreviewRows is used when BuildPreview is given a non-positive limit.
const DefaultPreviewRows = 50

// maxErrorSamples bounds how many parse errors a preview lists.
const maxErrorSamples = 100

// ErrorPreview describes one parse error for display: the 1-based row
// number, the message, and the offending row's data. Header errors have
// Header set and Row 0.
type ErrorPreview struct {
	Row     int               `json:"row"`
	Header  bool              `json:"header,omitempty"`
	Line    int               `json:"line"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data"`
}

// String renders the error the way the error list shows it.
func (e ErrorPreview) String() string {
	if e.Header {
		return "row=header error=" + e.Message
	}
	data, _ := json.Marshal(e.Data)
	return "row=" + strconv.Itoa(e.Row) + " error=" + e.Message + " data=" + string(data)
}

// Preview is what a table display needs: either an error list or a grid.
type Preview struct {
	Fields    []string       `json:"fields"`
	Rows      [][]string     `json:"rows"`
	TotalRows int            `json:"totalRows"`
	Truncated bool           `json:"truncated"`
	Errors    []ErrorPreview `json:"errors,omitempty"`
	ErrorRows int            `json:"errorRows"`
}

// HasErrors reports whether the error list should be shown instead of the grid.
func (p Preview) HasErrors() bool {
	return len(p.Errors) > 0
}

// BuildPreview lays out res for display, keeping at most maxRows grid rows.
func BuildPreview(res ParseResult, maxRows int) Preview {
	if maxRows <= 0 {
		maxRows = DefaultPreviewRows
	}

	p := Preview{
		Fields:    res.Fields,
		TotalRows: len(res.Rows),
		ErrorRows: len(res.Errors),
	}

	for i, pe := range res.Errors {
		if i >= maxErrorSamples {
			break
		}
		ep := ErrorPreview{Row: pe.Row + 1, Header: pe.Row < 0, Line: pe.Line, Message: pe.Message}
		if pe.Row >= 0 && pe.Row < len(res.Rows) {
			ep.Data = res.Rows[pe.Row]
		}
		p.Errors = append(p.Errors, ep)
	}

	n := len(res.Rows)
	if n > maxRows {
		n = maxRows
		p.Truncated = true
	}
	p.Rows = make([][]string, 0, n)
	for _, row := range res.Rows[:n] {
		cells := make([]string, len(res.Fields))
		for j, f := range res.Fields {
			cells[j] = row[f]
		}
		p.Rows = append(p.Rows, cells)
	}

	return p
}
