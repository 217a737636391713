package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/worldsalbum/worlds-server/internal/config"
	"github.com/worldsalbum/worlds-server/internal/convert"
	"github.com/worldsalbum/worlds-server/internal/logger"
	"github.com/worldsalbum/worlds-server/internal/paths"
	"github.com/worldsalbum/worlds-server/internal/queue"
)

// ProvideQueue provides the conversion job queue.
func ProvideQueue(_ do.Injector) (*queue.Queue, error) {
	return queue.New(), nil
}

// ConvertWorkerHandle wraps the conversion worker pool for lifecycle management.
type ConvertWorkerHandle struct {
	Worker *convert.Worker
}

// Shutdown stops the workers and waits for in-flight conversions.
func (h *ConvertWorkerHandle) Shutdown() error {
	h.Worker.Stop()
	return nil
}

// ProvideConvertWorker provides the conversion worker pool and starts it.
func ProvideConvertWorker(i do.Injector) (*ConvertWorkerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	q := do.MustInvoke[*queue.Queue](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	resolver := do.MustInvoke[*paths.Resolver](i)

	w := convert.NewWorker(q, storeHandle.Store, resolver, log.Logger,
		cfg.Media.ThumbQuality, cfg.Media.ViewQuality, cfg.Media.Workers)
	w.Start(context.Background())

	return &ConvertWorkerHandle{Worker: w}, nil
}
