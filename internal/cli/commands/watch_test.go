package commands

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFile_RegeneratesOnChange(t *testing.T) {
	path := writeFile(t, "data.csv", "a\n1\n")

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 20*time.Millisecond, func() { calls.Add(1) })
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	// A burst of writes collapses into one run.
	require.Eventually(t, func() bool {
		for i := 0; i < 3; i++ {
			_ = os.WriteFile(path, []byte("a\n2\n"), 0o644)
		}
		return calls.Load() >= 2
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchFile did not stop")
	}
}

func TestWatchFile_IgnoresSiblings(t *testing.T) {
	path := writeFile(t, "data.csv", "a\n1\n")
	sibling := filepath.Join(filepath.Dir(path), "other.csv")

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = watchFile(ctx, path, 10*time.Millisecond, func() { calls.Add(1) }) }()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, os.WriteFile(sibling, []byte("x"), 0o644))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatchFile_MissingFile(t *testing.T) {
	err := watchFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), 0, func() {})
	assert.Error(t, err)
}
