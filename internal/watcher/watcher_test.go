package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	_, err := New(Config{OnChange: func(string) {}})
	assert.Error(t, err)

	_, err = New(Config{Root: t.TempDir()})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "a.prefab")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = New(Config{Root: file, OnChange: func(string) {}})
	assert.Error(t, err)
}

func TestReadyDebounces(t *testing.T) {
	w, err := New(Config{Root: t.TempDir(), DebounceDelay: time.Second, OnChange: func(string) {}})
	require.NoError(t, err)

	now := time.Now()
	w.pending["a.prefab"] = now.Add(-2 * time.Second)
	w.pending["b.prefab"] = now

	assert.Equal(t, []string{"a.prefab"}, w.ready(now))
	assert.Empty(t, w.ready(now))
	assert.Equal(t, []string{"b.prefab"}, w.ready(now.Add(time.Second)))
}

func TestSuppressDropsOwnWrites(t *testing.T) {
	root := t.TempDir()
	w, err := New(Config{Root: root, DebounceDelay: 50 * time.Millisecond, OnChange: func(string) {}})
	require.NoError(t, err)

	path := filepath.Join(root, "Player.prefab")
	write := fsnotify.Event{Name: path, Op: fsnotify.Write}

	w.handleEvent(write)
	require.Contains(t, w.pending, path)

	w.Suppress(path)
	assert.NotContains(t, w.pending, path, "pending event from the write is dropped")

	w.handleEvent(write)
	assert.NotContains(t, w.pending, path, "events inside the window are dropped")

	time.Sleep(60 * time.Millisecond)
	w.handleEvent(write)
	assert.Contains(t, w.pending, path, "later saves are reported again")
	assert.NotContains(t, w.muted, path)
}

func TestWatcherReportsChangedDocuments(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Assets"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Library"), 0o755))

	var mu sync.Mutex
	var seen []string
	w, err := New(Config{
		Root:          root,
		Accept:        func(p string) bool { return strings.HasSuffix(p, ".prefab") },
		DebounceDelay: 20 * time.Millisecond,
		OnChange: func(p string) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, p)
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher time to register directories.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "Library", "cache.prefab"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Assets", "notes.txt"), []byte("x"), 0o644))
	target := filepath.Join(root, "Assets", "Player.prefab")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, 3*time.Second, 20*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	for _, p := range seen {
		assert.Equal(t, target, p)
	}
}
