package core

import (
	"errors"
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// CoerceText Tests
// ----------------------------------------------------------------------------

func TestCoerceText(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantLiteral string
	}{
		{"plain", "Ada", "'Ada'"},
		{"trims whitespace", "  Ada  ", "'Ada'"},
		{"doubles single quote", "O'Brien", "'O''Brien'"},
		{"doubles every quote", "'a''b'", "'''a''''b'''"},
		{"empty", "", "''"},
		{"only whitespace", "   ", "''"},
		{"double quotes untouched", `say "hi"`, `'say "hi"'`},
		{"inner whitespace kept", "New  York", "'New  York'"},
		{"unicode", "Zoë", "'Zoë'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := CoerceText(tt.input)
			if err != nil {
				t.Fatalf("CoerceText(%q) error = %v", tt.input, err)
			}
			if got := v.Literal(); got != tt.wantLiteral {
				t.Errorf("CoerceText(%q).Literal() = %s, want %s", tt.input, got, tt.wantLiteral)
			}
		})
	}
}

func TestCoerceText_RoundTrip(t *testing.T) {
	lit, err := CoerceLiteral(TypeText, "O'Brien")
	if err != nil {
		t.Fatalf("CoerceLiteral() error = %v", err)
	}
	if lit != "'O''Brien'" {
		t.Fatalf("literal = %s, want 'O''Brien'", lit)
	}

	body := lit[1 : len(lit)-1]
	if got := strings.ReplaceAll(body, "''", "'"); got != "O'Brien" {
		t.Errorf("decoded = %q, want %q", got, "O'Brien")
	}
}

// ----------------------------------------------------------------------------
// CoerceInt Tests
// ----------------------------------------------------------------------------

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain", input: "30", want: 30},
		{name: "currency with separator", input: "$1,234", want: 1234},
		{name: "surrounding whitespace", input: "  42 ", want: 42},
		{name: "leading zeros", input: "007", want: 7},
		{name: "zero", input: "0", want: 0},

		// Digits-only policy: sign and decimal point are discarded.
		{name: "minus sign dropped", input: "-15", want: 15},
		{name: "decimal point dropped", input: "12.50", want: 1250},
		{name: "mixed text", input: "abc123def", want: 123},

		{name: "letters only", input: "abc", wantErr: true},
		{name: "word number", input: "twenty", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "punctuation only", input: "-.,", wantErr: true},
		{name: "non-ascii digits", input: "٣", wantErr: true},
		{name: "overflow", input: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := CoerceInt(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInteger) {
					t.Fatalf("CoerceInt(%q) error = %v, want ErrInvalidInteger", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CoerceInt(%q) error = %v", tt.input, err)
			}
			if v.Int != tt.want {
				t.Errorf("CoerceInt(%q) = %d, want %d", tt.input, v.Int, tt.want)
			}
		})
	}
}

func TestCoerceInt_Literal(t *testing.T) {
	v, err := CoerceInt("$1,234")
	if err != nil {
		t.Fatalf("CoerceInt() error = %v", err)
	}
	if got := v.Literal(); got != "1234" {
		t.Errorf("Literal() = %s, want 1234", got)
	}
	if got, ok := v.Any().(int64); !ok || got != 1234 {
		t.Errorf("Any() = %v, want int64 1234", v.Any())
	}
}

// ----------------------------------------------------------------------------
// CoerceBool Tests
// ----------------------------------------------------------------------------

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    bool
		wantErr bool
	}{
		{name: "true", input: "true", want: true},
		{name: "false", input: "false", want: false},
		{name: "upper with padding", input: " TRUE ", want: true},
		{name: "mixed case", input: "False", want: false},

		{name: "yes rejected", input: "yes", wantErr: true},
		{name: "one rejected", input: "1", wantErr: true},
		{name: "t rejected", input: "t", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
		{name: "trailing text", input: "truely", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := CoerceBool(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBoolean) {
					t.Fatalf("CoerceBool(%q) error = %v, want ErrInvalidBoolean", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CoerceBool(%q) error = %v", tt.input, err)
			}
			if v.Bool != tt.want {
				t.Errorf("CoerceBool(%q) = %v, want %v", tt.input, v.Bool, tt.want)
			}
		})
	}
}

func TestCoerceBool_Literal(t *testing.T) {
	for in, want := range map[string]string{" TRUE ": "true", "false": "false"} {
		v, err := CoerceBool(in)
		if err != nil {
			t.Fatalf("CoerceBool(%q) error = %v", in, err)
		}
		if got := v.Literal(); got != want {
			t.Errorf("CoerceBool(%q).Literal() = %s, want %s", in, got, want)
		}
	}
}

// ----------------------------------------------------------------------------
// Registry Tests
// ----------------------------------------------------------------------------

func TestGetCoercer(t *testing.T) {
	for _, ct := range ColumnTypes {
		if _, err := GetCoercer(ct); err != nil {
			t.Errorf("GetCoercer(%s) error = %v", ct, err)
		}
	}

	_, err := GetCoercer(ColumnType("date"))
	if !errors.Is(err, ErrUnknownColumnType) {
		t.Errorf("GetCoercer(date) error = %v, want ErrUnknownColumnType", err)
	}
}

func TestRegisterCoercer_DuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("RegisterCoercer() did not panic on duplicate type")
		}
	}()
	RegisterCoercer(TypeText, CoerceText)
}

func TestParseColumnType(t *testing.T) {
	tests := []struct {
		input   string
		want    ColumnType
		wantErr bool
	}{
		{"text", TypeText, false},
		{"INT", TypeInt, false},
		{" bool ", TypeBool, false},
		{"boolean", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseColumnType(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownColumnType) {
				t.Errorf("ParseColumnType(%q) error = %v, want ErrUnknownColumnType", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseColumnType(%q) = %v, %v, want %v", tt.input, got, err, tt.want)
		}
	}
}

func TestCoerceLiteral_UnknownType(t *testing.T) {
	_, err := CoerceLiteral(ColumnType("float"), "1.5")
	if !errors.Is(err, ErrUnknownColumnType) {
		t.Errorf("CoerceLiteral() error = %v, want ErrUnknownColumnType", err)
	}
}

func TestDigitsOnly(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"abc":        "",
		"a1b2c3":     "123",
		"(555) 0100": "5550100",
		"1e5":        "15",
	}
	for in, want := range tests {
		if got := DigitsOnly(in); got != want {
			t.Errorf("DigitsOnly(%q) = %q, want %q", in, got, want)
		}
	}
}
