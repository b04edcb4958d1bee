// Package clipboard copies text to the user's clipboard through the terminal
// using the OSC 52 escape sequence, which works over SSH and inside tmux.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// ErrNotTerminal is returned by CopyToTerminal when the target is not a TTY.
var ErrNotTerminal = errors.New("clipboard: output is not a terminal")

// Copy writes the OSC 52 sequence for text to w.
func Copy(w io.Writer, text string) error {
	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	} else if strings.HasPrefix(os.Getenv("TERM"), "screen") {
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(w); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// CopyToTerminal copies text via f, but only when f is a terminal.
func CopyToTerminal(f *os.File, text string) error {
	if !IsTerminal(f) {
		return ErrNotTerminal
	}
	return Copy(f, text)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
