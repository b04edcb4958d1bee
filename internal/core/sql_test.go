package core

import (
	"errors"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	got := Render([]string{"name", "active"}, []string{"('Ada', true)", "('Grace', false)"})
	want := "WITH raw(name, active) AS (VALUES\n  ('Ada', true),\n  ('Grace', false)\n)\nSELECT *\nFROM raw"
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRender_Empty(t *testing.T) {
	got := Render(nil, nil)
	if !strings.HasPrefix(got, "WITH raw() AS (VALUES") {
		t.Errorf("Render(nil, nil) = %q", got)
	}
	if !strings.HasSuffix(got, "FROM raw") {
		t.Errorf("Render(nil, nil) = %q", got)
	}
	if got != strings.TrimSpace(got) {
		t.Errorf("Render() output not trimmed: %q", got)
	}
}

func TestGenerate_EndToEnd(t *testing.T) {
	res := Parse("name,active\nAda,true\nGrace,false", ParseOptions{})
	cfg := ColumnConfigs{
		"name":   {TargetName: "name", Type: TypeText, Include: true},
		"active": {TargetName: "active", Type: TypeBool, Include: true},
	}

	got, err := Generate(res.Fields, res.Rows, cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	want := "WITH raw(name, active) AS (VALUES\n  ('Ada', true),\n  ('Grace', false)\n)\nSELECT *\nFROM raw"
	if got != want {
		t.Errorf("Generate() =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerate_InvalidIntegerAborts(t *testing.T) {
	res := Parse("name,age\nAlice,30\nBob,twenty", ParseOptions{})
	cfg := DefaultConfigs(res.Fields, nil)
	cfg["age"] = ColumnConfig{TargetName: "age", Type: TypeInt, Include: true}

	got, err := Generate(res.Fields, res.Rows, cfg)
	if got != "" {
		t.Errorf("Generate() returned partial SQL: %q", got)
	}
	if !errors.Is(err, ErrInvalidInteger) {
		t.Fatalf("Generate() error = %v, want ErrInvalidInteger", err)
	}

	var ce *CoercionError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not *CoercionError", err)
	}
	if ce.Field != "age" || ce.Row != 1 || ce.Value != "twenty" {
		t.Errorf("CoercionError = %+v, want field age row 1 value twenty", ce)
	}
}

func TestNormalizeColumnName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"name", "name"},
		{"  First Name  ", "first_name"},
		{"firstName", "first_name"},
		{"CustomerID", "customer_id"},
		{"Order-Date (UTC)", "order_date_utc_"},
		{"already_snake", "already_snake"},
		{"a  --  b", "a_b"},
		{"Café", "caf_"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeColumnName(tt.input); got != tt.want {
			t.Errorf("NormalizeColumnName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeColumnNameASCII(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Café", "cafe"},
		{"Straße Nr", "stra_e_nr"}, // ß has no decomposition
		{"naïveValue", "naive_value"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := NormalizeColumnNameASCII(tt.input); got != tt.want {
			t.Errorf("NormalizeColumnNameASCII(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
