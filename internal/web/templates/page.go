// Package templates holds the HTML components for the web UI.
//
// Components are written in templ; components_templ.go is generated.
package templates

//go:generate templ generate

import (
	"strconv"
	"time"

	"github.com/JonMunkholm/csv2sql/internal/core"
)

// PageData is everything the full page needs.
type PageData struct {
	Input         string
	Preview       core.Preview
	Fields        []string
	Configs       core.ColumnConfigs
	SQL           string
	VerifyBackend string
	Debounce      time.Duration
}

// htmxConfig makes htmx swap 4xx and 5xx responses, which carry ErrorAlert.
const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"[45]..","swap":true,"error":true}]}`

// AlertTarget is the element error fragments are swapped into.
const AlertTarget = "#alerts"

const defaultDebounce = 250 * time.Millisecond

func inputTrigger(debounce time.Duration) string {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return "input changed delay:" + strconv.FormatInt(debounce.Milliseconds(), 10) +
		"ms from:#csv-input, change from:#delimiter"
}

func rowsNote(p core.Preview) string {
	if p.Truncated {
		return "Showing " + strconv.Itoa(len(p.Rows)) + " of " + strconv.Itoa(p.TotalRows) + " rows."
	}
	return strconv.Itoa(p.TotalRows) + " rows."
}

func countNote(n int, text string) string {
	return strconv.Itoa(n) + " " + text
}
