package core

// input.go cleans up text before parsing.
//
// Pasted and uploaded CSV often carries a UTF-8 byte order mark from Windows
// programs, and occasionally bytes that are not valid UTF-8 at all. The BOM is
// removed and every invalid byte is replaced with '?', one for one, so that
// cell lengths stay recognisable to the user.

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"
)

const utf8BOM = "\uFEFF"

// SanitizeInput strips a leading BOM and replaces invalid UTF-8 bytes.
func SanitizeInput(s string) string {
	if len(s) >= len(utf8BOM) && s[:len(utf8BOM)] == utf8BOM {
		s = s[len(utf8BOM):]
	}
	if isAllASCII(s) || utf8.ValidString(s) {
		return s
	}

	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			out = append(out, '?')
			i++
			continue
		}
		out = append(out, s[i:i+size]...)
		i += size
	}
	return string(out)
}

// isAllASCII is the fast path; most CSV data is ASCII.
func isAllASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// ReadInput reads all of r, refusing anything larger than limit bytes.
// A limit of zero or less disables the cap.
func ReadInput(ctx context.Context, r io.Reader, limit int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return "", fmt.Errorf("%w: exceeds %d bytes", ErrInputTooLarge, limit)
	}
	return SanitizeInput(string(data)), nil
}

// ParseReader reads, sanitizes and parses r in one step.
func ParseReader(ctx context.Context, r io.Reader, limit int64, opts ParseOptions) (ParseResult, error) {
	text, err := ReadInput(ctx, r, limit)
	if err != nil {
		return ParseResult{}, err
	}
	return Parse(text, opts), nil
}
