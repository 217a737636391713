// Package convert turns source images into thumbnail and view renditions.
package convert

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"

	// Register decoders for source formats imaging does not handle natively.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/worldsalbum/worlds-server/internal/domain"
	"github.com/worldsalbum/worlds-server/internal/paths"
	"github.com/worldsalbum/worlds-server/internal/queue"
	"github.com/worldsalbum/worlds-server/internal/store"
)

// Worker consumes conversion jobs and produces both renditions per image.
type Worker struct {
	queue    *queue.Queue
	store    *store.Store
	resolver *paths.Resolver
	logger   *slog.Logger

	thumbQuality int
	viewQuality  int
	workers      int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker creates a conversion worker pool. Qualities outside [1, 100] are
// clamped.
func NewWorker(q *queue.Queue, s *store.Store, r *paths.Resolver, logger *slog.Logger, thumbQuality, viewQuality, workers int) *Worker {
	if workers < 1 {
		workers = 1
	}
	return &Worker{
		queue:        q,
		store:        s,
		resolver:     r,
		logger:       logger,
		thumbQuality: clampQuality(thumbQuality),
		viewQuality:  clampQuality(viewQuality),
		workers:      workers,
	}
}

func clampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// Start launches the worker goroutines.
func (w *Worker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	for i := range w.workers {
		w.wg.Add(1)
		go w.run(ctx, i)
	}

	w.logger.Info("conversion workers started",
		"workers", w.workers,
		"thumb_quality", w.thumbQuality,
		"view_quality", w.viewQuality,
	)
}

// Stop signals the workers to exit and waits for in-flight jobs to finish.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.logger.Info("conversion workers stopped")
}

func (w *Worker) run(ctx context.Context, worker int) {
	defer w.wg.Done()

	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			return
		}

		if err := w.Process(ctx, job); err != nil {
			w.logger.Warn("image conversion failed",
				"worker", worker,
				"world_id", job.WorldID,
				"filename", job.Filename,
				"error", err,
			)
		}
		w.queue.Done(job)
	}
}

// Process converts a single source image. The image is decoded once and
// encoded at both qualities; renditions that already exist on disk are left
// untouched. The catalog record is written only after both rendition files
// exist, so a crash mid-conversion leaves the job repeatable rather than
// half-recorded.
func (w *Worker) Process(ctx context.Context, job queue.Job) error {
	origin := w.resolver.Origin(job.WorldID, job.Filename)

	img, err := imaging.Open(origin, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode %s: %w", origin, err)
	}

	thumbPath := w.resolver.Thumb(job.WorldID, job.Filename)
	viewPath := w.resolver.View(job.WorldID, job.Filename)

	if err := encodeIfMissing(img, thumbPath, w.thumbQuality); err != nil {
		return fmt.Errorf("thumb rendition: %w", err)
	}
	if err := encodeIfMissing(img, viewPath, w.viewQuality); err != nil {
		return fmt.Errorf("view rendition: %w", err)
	}

	bounds := img.Bounds()
	record := &domain.WorldImage{
		WorldID:  job.WorldID,
		Filename: job.Filename,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}
	if err := w.store.AddImage(ctx, record); err != nil {
		return fmt.Errorf("record image: %w", err)
	}

	w.logger.Debug("image converted",
		"world_id", job.WorldID,
		"filename", job.Filename,
		"width", record.Width,
		"height", record.Height,
	)
	return nil
}

// encodeIfMissing writes a JPEG rendition unless the target already exists.
func encodeIfMissing(img image.Image, path string, quality int) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create rendition dir: %w", err)
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
