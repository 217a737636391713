// Package watcher turns filesystem activity under the scan root into scan
// triggers.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the scan root and its world folders. Events are debounced
// into a single trigger call, since one copy operation usually produces a
// burst of notifications.
type Watcher struct {
	fs       *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
	trigger  func()

	mu    sync.Mutex
	timer *time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a watcher that calls trigger after filesystem activity settles.
func New(logger *slog.Logger, debounce time.Duration, trigger func()) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		fs:       fs,
		logger:   logger,
		debounce: debounce,
		trigger:  trigger,
		done:     make(chan struct{}),
	}, nil
}

// Start watches root and its immediate subdirectories and begins processing
// events until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context, root string) error {
	if err := w.fs.Add(root); err != nil {
		return fmt.Errorf("watch scan root: %w", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read scan root: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("failed to watch world folder", "path", path, "error", err)
		}
	}

	w.wg.Add(1)
	go w.processEvents(ctx)

	w.logger.Info("filesystem watcher started", "root", root, "debounce", w.debounce)
	return nil
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New world folders need their own watch to see files created inside.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fs.Add(event.Name); err != nil {
				w.logger.Warn("failed to watch new folder", "path", event.Name, "error", err)
			}
		}
	}

	w.scheduleTrigger()
}

// scheduleTrigger arms the debounce timer, restarting it if it is already
// running.
func (w *Watcher) scheduleTrigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.done:
			return
		default:
		}
		w.logger.Debug("filesystem activity settled, triggering scan")
		w.trigger()
	})
}
