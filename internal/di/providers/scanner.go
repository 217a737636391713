package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/worldsalbum/worlds-server/internal/config"
	"github.com/worldsalbum/worlds-server/internal/logger"
	"github.com/worldsalbum/worlds-server/internal/metadata/vrchat"
	"github.com/worldsalbum/worlds-server/internal/paths"
	"github.com/worldsalbum/worlds-server/internal/queue"
	"github.com/worldsalbum/worlds-server/internal/scanner"
	"github.com/worldsalbum/worlds-server/internal/watcher"
)

// ProvideScanner provides the source tree scanner.
func ProvideScanner(i do.Injector) (*scanner.Scanner, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	q := do.MustInvoke[*queue.Queue](i)
	resolver := do.MustInvoke[*paths.Resolver](i)
	client := do.MustInvoke[*vrchat.Client](i)

	return scanner.New(storeHandle.Store, client, q, resolver, log.Logger, cfg.Cache.MetadataTTL), nil
}

// ScanLoopHandle owns the periodic scan goroutine.
type ScanLoopHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown stops the scan loop and waits for it to exit.
func (h *ScanLoopHandle) Shutdown() error {
	h.cancel()
	<-h.done
	return nil
}

// ProvideScanLoop starts the scan loop. The initial scan runs as soon as the
// loop starts.
func ProvideScanLoop(i do.Injector) (*ScanLoopHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	sc := do.MustInvoke[*scanner.Scanner](i)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		sc.Run(ctx, cfg.Cache.ScanInterval)
	}()

	return &ScanLoopHandle{cancel: cancel, done: done}, nil
}

// WatcherHandle wraps the filesystem watcher for lifecycle management. The
// watcher is nil when watching is disabled.
type WatcherHandle struct {
	Watcher *watcher.Watcher
}

// Shutdown stops the watcher.
func (h *WatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	return h.Watcher.Stop()
}

// ProvideWatcher provides the filesystem watcher and starts it on the scan
// root when enabled.
func ProvideWatcher(i do.Injector) (*WatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sc := do.MustInvoke[*scanner.Scanner](i)

	if !cfg.Watcher.Enabled {
		log.Info("filesystem watcher disabled")
		return &WatcherHandle{}, nil
	}

	w, err := watcher.New(log.Logger, cfg.Watcher.Debounce, sc.Trigger)
	if err != nil {
		return nil, err
	}
	if err := w.Start(context.Background(), cfg.Library.ScanRoot); err != nil {
		return nil, err
	}

	return &WatcherHandle{Watcher: w}, nil
}
