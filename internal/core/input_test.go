package core

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestUTF8BOM(t *testing.T) {
	if utf8BOM != "\xEF\xBB\xBF" {
		t.Fatalf("utf8BOM = % x, want ef bb bf", utf8BOM)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "text with BOM",
			input:    "\xEF\xBB\xBFhello,world",
			expected: "hello,world",
		},
		{
			name:     "text without BOM",
			input:    "hello,world",
			expected: "hello,world",
		},
		{
			name:     "only BOM",
			input:    "\xEF\xBB\xBF",
			expected: "",
		},
		{
			name:     "partial BOM is invalid UTF-8",
			input:    "\xEF\xBBabc",
			expected: "??abc",
		},
		{
			name:     "valid multibyte kept",
			input:    "café,naïve",
			expected: "café,naïve",
		},
		{
			name:     "invalid byte replaced",
			input:    "a\xFFb",
			expected: "a?b",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeInput(tt.input); got != tt.expected {
				t.Errorf("SanitizeInput(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestReadInput(t *testing.T) {
	ctx := context.Background()

	got, err := ReadInput(ctx, strings.NewReader("\xEF\xBB\xBFa,b\n1,2"), 100)
	if err != nil {
		t.Fatalf("ReadInput() error = %v", err)
	}
	if got != "a,b\n1,2" {
		t.Errorf("ReadInput() = %q, want %q", got, "a,b\n1,2")
	}

	_, err = ReadInput(ctx, strings.NewReader("0123456789"), 5)
	if !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("ReadInput() error = %v, want ErrInputTooLarge", err)
	}

	if _, err := ReadInput(ctx, strings.NewReader("12345"), 5); err != nil {
		t.Errorf("ReadInput() at exact limit error = %v", err)
	}

	if _, err := ReadInput(ctx, strings.NewReader(strings.Repeat("x", 1000)), 0); err != nil {
		t.Errorf("ReadInput() without limit error = %v", err)
	}
}

func TestReadInput_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadInput(ctx, strings.NewReader("a,b"), 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ReadInput() error = %v, want context.Canceled", err)
	}
}

func TestParseReader(t *testing.T) {
	res, err := ParseReader(context.Background(), strings.NewReader("name;age\nAda;36\n"), 0, ParseOptions{})
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	if len(res.Fields) != 2 || res.Fields[1] != "age" {
		t.Fatalf("Fields = %v, want [name age]", res.Fields)
	}
	if res.Rows[0]["age"] != "36" {
		t.Errorf("age = %q, want %q", res.Rows[0]["age"], "36")
	}
}
