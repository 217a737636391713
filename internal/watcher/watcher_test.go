package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, debounce time.Duration, trigger func()) *Watcher {
	t.Helper()

	w, err := New(slog.New(slog.DiscardHandler), debounce, trigger)
	require.NoError(t, err)
	return w
}

func TestWatcherTriggersOnNewFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "wrld_abc"), 0o755))

	var triggers atomic.Int32
	w := newTestWatcher(t, 50*time.Millisecond, func() { triggers.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(filepath.Join(root, "wrld_abc", "shot.png"), []byte("img"), 0o644))

	require.Eventually(t, func() bool {
		return triggers.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "wrld_abc")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	var triggers atomic.Int32
	w := newTestWatcher(t, 100*time.Millisecond, func() { triggers.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))
	defer func() { _ = w.Stop() }()

	// A burst of writes within the debounce window.
	for i := range 5 {
		name := filepath.Join(dir, "shot"+string(rune('a'+i))+".png")
		require.NoError(t, os.WriteFile(name, []byte("img"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return triggers.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)

	// Give any stray timers a chance to fire; the burst must have collapsed.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), triggers.Load())
}

func TestWatcherPicksUpNewFolders(t *testing.T) {
	root := t.TempDir()

	var triggers atomic.Int32
	w := newTestWatcher(t, 50*time.Millisecond, func() { triggers.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))
	defer func() { _ = w.Stop() }()

	// Create a world folder after the watcher started, then a file inside
	// it. The inner file is only visible if the new folder got watched.
	dir := filepath.Join(root, "wrld_new")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	require.Eventually(t, func() bool {
		return triggers.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)
	first := triggers.Load()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shot.png"), []byte("img"), 0o644))

	require.Eventually(t, func() bool {
		return triggers.Load() > first
	}, 3*time.Second, 20*time.Millisecond)
}
