package core

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultConfigs(t *testing.T) {
	cfg := DefaultConfigs([]string{"First Name", "isActive"}, nil)

	want := map[string]ColumnConfig{
		"First Name": {TargetName: "first_name", Type: TypeText, Include: true},
		"isActive":   {TargetName: "is_active", Type: TypeText, Include: true},
	}
	for f, w := range want {
		if got := cfg[f]; got != w {
			t.Errorf("cfg[%q] = %+v, want %+v", f, got, w)
		}
	}
}

func TestReconcileConfigs(t *testing.T) {
	prev := ColumnConfigs{
		"keep": {TargetName: "kept_name", Type: TypeInt, Include: false},
		"gone": {TargetName: "gone", Type: TypeBool, Include: true},
	}

	got := ReconcileConfigs([]string{"keep", "fresh"}, prev, nil)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got["keep"] != prev["keep"] {
		t.Errorf("surviving field lost its config: %+v", got["keep"])
	}
	if got["fresh"] != (ColumnConfig{TargetName: "fresh", Type: TypeText, Include: true}) {
		t.Errorf("new field config = %+v", got["fresh"])
	}
	if _, ok := got["gone"]; ok {
		t.Error("vanished field still configured")
	}
	if _, ok := prev["fresh"]; ok {
		t.Error("ReconcileConfigs mutated prev")
	}
}

func TestValidateConfigs(t *testing.T) {
	fields := []string{"a", "b"}

	if err := ValidateConfigs(fields, DefaultConfigs(fields, nil)); err != nil {
		t.Fatalf("ValidateConfigs(defaults) error = %v", err)
	}

	cfg := ColumnConfigs{
		"a":     {TargetName: "", Type: TypeText, Include: true},
		"extra": {TargetName: "x", Type: TypeText, Include: true},
	}
	err := ValidateConfigs(fields, cfg)
	if err == nil {
		t.Fatal("ValidateConfigs() expected error")
	}
	for _, want := range []string{ReasonEmptyName, ReasonMissing, ReasonUnknown} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}

	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Error("joined error does not expose *ConfigError")
	}
}

func TestValidateConfigs_ExcludedSkipsChecks(t *testing.T) {
	cfg := ColumnConfigs{"a": {TargetName: "", Type: ColumnType("nope"), Include: false}}
	if err := ValidateConfigs([]string{"a"}, cfg); err != nil {
		t.Errorf("ValidateConfigs() error = %v, want nil for excluded field", err)
	}
}

func TestState_WithInput(t *testing.T) {
	s0 := NewState(nil)
	s1 := s0.WithInput("name,age\nAda,36", ParseOptions{})

	if len(s0.Parsed.Fields) != 0 {
		t.Error("WithInput mutated the previous state")
	}
	if len(s1.Parsed.Fields) != 2 {
		t.Fatalf("Fields = %v", s1.Parsed.Fields)
	}
	if _, ok := s1.Configs["age"]; !ok {
		t.Error("new field has no default config")
	}
}

func TestState_ConfigSurvivesReparse(t *testing.T) {
	s := NewState(nil).WithInput("name,age\nAda,36", ParseOptions{})
	s, err := s.WithConfig("age", ColumnConfig{TargetName: "years", Type: TypeInt, Include: true})
	if err != nil {
		t.Fatalf("WithConfig() error = %v", err)
	}

	s = s.WithInput("name,age,city\nAda,36,London", ParseOptions{})

	if got := s.Configs["age"]; got.TargetName != "years" || got.Type != TypeInt {
		t.Errorf("age config = %+v, want preserved", got)
	}
	if _, ok := s.Configs["city"]; !ok {
		t.Error("city has no config")
	}

	s = s.WithInput("name\nAda", ParseOptions{})
	if _, ok := s.Configs["age"]; ok {
		t.Error("config for removed field kept")
	}
}

func TestState_WithConfig_Errors(t *testing.T) {
	s := NewState(nil).WithInput("a\n1", ParseOptions{})

	_, err := s.WithConfig("missing", ColumnConfig{TargetName: "m", Type: TypeText, Include: true})
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Reason != ReasonUnknown {
		t.Errorf("WithConfig(unknown field) error = %v, want unknown field", err)
	}

	_, err = s.WithConfig("a", ColumnConfig{TargetName: "a", Type: ColumnType("float"), Include: true})
	if !errors.Is(err, ErrUnknownColumnType) {
		t.Errorf("WithConfig(bad type) error = %v, want ErrUnknownColumnType", err)
	}
}

func TestState_WithConfigDoesNotShareMap(t *testing.T) {
	s1 := NewState(nil).WithInput("a\n1", ParseOptions{})
	s2, err := s1.WithConfig("a", ColumnConfig{TargetName: "renamed", Type: TypeText, Include: true})
	if err != nil {
		t.Fatalf("WithConfig() error = %v", err)
	}
	if s1.Configs["a"].TargetName != "a" {
		t.Error("WithConfig mutated the previous state's configs")
	}
	if s2.Configs["a"].TargetName != "renamed" {
		t.Error("WithConfig did not apply")
	}
}

func TestState_Generate(t *testing.T) {
	s := NewState(nil).WithInput("name,active\nAda,true\nGrace,false", ParseOptions{})
	s, _ = s.WithConfig("active", ColumnConfig{TargetName: "active", Type: TypeBool, Include: true})

	g := s.Generate()
	if g.Err != nil {
		t.Fatalf("Generate() Err = %v", g.Err)
	}
	want := "WITH raw(name, active) AS (VALUES\n  ('Ada', true),\n  ('Grace', false)\n)\nSELECT *\nFROM raw"
	if g.SQL != want {
		t.Errorf("SQL =\n%s\nwant\n%s", g.SQL, want)
	}
	if s.SQL != "" {
		t.Error("Generate mutated the previous state")
	}

	changed := g.WithInput("name\nAda", ParseOptions{})
	if changed.SQL != "" {
		t.Error("input change did not clear generated SQL")
	}
}

func TestState_GenerateFailure(t *testing.T) {
	s := NewState(nil).WithInput("name,age\nAlice,30\nBob,twenty", ParseOptions{})
	s, _ = s.WithConfig("age", ColumnConfig{TargetName: "age", Type: TypeInt, Include: true})

	g := s.Generate()
	if !errors.Is(g.Err, ErrInvalidInteger) {
		t.Errorf("Err = %v, want ErrInvalidInteger", g.Err)
	}
	if g.SQL != "" {
		t.Errorf("SQL = %q, want empty on failure", g.SQL)
	}
}

func TestState_CustomNaming(t *testing.T) {
	s := NewState(NormalizeColumnNameASCII).WithInput("Café\nx", ParseOptions{})
	if got := s.Configs["Café"].TargetName; got != "cafe" {
		t.Errorf("TargetName = %q, want cafe", got)
	}
}
