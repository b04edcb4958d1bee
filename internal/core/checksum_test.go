package core

import "testing"

func TestChecksum(t *testing.T) {
	a := Checksum("SELECT 1")
	if len(a) != 16 {
		t.Errorf("Checksum() = %q, want 16 hex digits", a)
	}
	if got := Checksum("SELECT 1"); got != a {
		t.Errorf("Checksum() not stable: %q != %q", got, a)
	}
	if got := Checksum("SELECT 2"); got == a {
		t.Errorf("Checksum() collided for different input: %q", got)
	}
}
