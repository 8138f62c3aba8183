package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsChangedFileOnce(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan string, 10)

	w := &watcher{
		path:     dir,
		debounce: 100 * time.Millisecond,
		onChange: func(file string) { changed <- file },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx) }()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)
	target := filepath.Join(dir, "guide.txt")
	require.NoError(t, os.WriteFile(target, []byte("page one"), 0o600))
	require.NoError(t, os.WriteFile(target, []byte("page one\fpage two"), 0o600))

	select {
	case file := <-changed:
		assert.Equal(t, target, file)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case file := <-changed:
		t.Fatalf("unexpected second report for %s", file)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcher_SingleFileIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "guide.txt")
	require.NoError(t, os.WriteFile(target, []byte("v1"), 0o600))

	changed := make(chan string, 10)
	w := &watcher{
		path:     target,
		debounce: 100 * time.Millisecond,
		onChange: func(file string) { changed <- file },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manuals.json"), []byte("[]"), 0o600))
	require.NoError(t, os.WriteFile(target, []byte("v2"), 0o600))

	select {
	case file := <-changed:
		assert.Equal(t, target, file)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := &watcher{path: filepath.Join(t.TempDir(), "missing"), debounce: time.Second}

	err := w.run(context.Background())

	assert.Error(t, err)
}
