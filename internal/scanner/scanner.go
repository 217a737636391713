// Package scanner walks the worlds source tree and reconciles it with the
// catalog.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/worldsalbum/worlds-server/internal/domain"
	"github.com/worldsalbum/worlds-server/internal/paths"
	"github.com/worldsalbum/worlds-server/internal/queue"
	"github.com/worldsalbum/worlds-server/internal/store"
)

// ErrScanInProgress is returned when a scan is requested while another is
// still running.
var ErrScanInProgress = errors.New("scan already in progress")

// MetadataFetcher retrieves remote metadata for a world.
type MetadataFetcher interface {
	FetchWorld(ctx context.Context, worldID string) (*domain.WorldMetadata, error)
}

// Scanner reconciles the source tree with the catalog. Each folder under the
// scan root is one world, named by its world ID.
type Scanner struct {
	store    *store.Store
	fetcher  MetadataFetcher
	queue    *queue.Queue
	resolver *paths.Resolver
	logger   *slog.Logger

	metadataTTL time.Duration

	running atomic.Bool
	trigger chan struct{}
	now     func() time.Time
}

// New creates a scanner.
func New(s *store.Store, fetcher MetadataFetcher, q *queue.Queue, r *paths.Resolver, logger *slog.Logger, metadataTTL time.Duration) *Scanner {
	return &Scanner{
		store:       s,
		fetcher:     fetcher,
		queue:       q,
		resolver:    r,
		logger:      logger,
		metadataTTL: metadataTTL,
		trigger:     make(chan struct{}, 1),
		now:         time.Now,
	}
}

// Trigger requests a scan without blocking. Requests made while a trigger is
// already pending coalesce into one scan.
func (s *Scanner) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run executes scans on the given interval and whenever Trigger is called,
// until ctx is cancelled. An initial scan runs immediately.
func (s *Scanner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.runScan(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runScan(ctx)
		case <-s.trigger:
			s.runScan(ctx)
		}
	}
}

func (s *Scanner) runScan(ctx context.Context) {
	err := s.Scan(ctx)
	switch {
	case errors.Is(err, ErrScanInProgress):
		s.logger.Debug("scan skipped, previous scan still running")
	case errors.Is(err, context.Canceled):
	case err != nil:
		s.logger.Error("scan failed", "error", err)
	}
}

// Scan walks the scan root once. Folders are processed independently: a
// failure in one is logged and does not abort the rest. Only an unreadable
// scan root fails the whole scan. Scan is not reentrant; a concurrent call
// returns ErrScanInProgress.
func (s *Scanner) Scan(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrScanInProgress
	}
	defer s.running.Store(false)

	started := s.now()

	entries, err := os.ReadDir(s.resolver.ScanRoot())
	if err != nil {
		return fmt.Errorf("read scan root: %w", err)
	}

	folders := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.IsDir() {
			continue
		}
		folders++

		if err := s.scanFolder(ctx, entry.Name()); err != nil {
			s.logger.Warn("world folder skipped",
				"world_id", entry.Name(),
				"error", err,
			)
		}
	}

	s.logger.Info("scan complete",
		"folders", folders,
		"queued", s.queue.Len(),
		"duration", s.now().Sub(started),
	)
	return nil
}

// scanFolder reconciles a single world folder with the catalog.
func (s *Scanner) scanFolder(ctx context.Context, worldID string) error {
	if len(worldID) > domain.MaxWorldIDLength {
		return fmt.Errorf("folder name exceeds %d characters", domain.MaxWorldIDLength)
	}

	info, err := os.Stat(s.resolver.WorldDir(worldID))
	if err != nil {
		return fmt.Errorf("stat folder: %w", err)
	}
	modifiedAt := info.ModTime().UTC()

	world, err := s.store.GetWorld(ctx, worldID)
	if errors.Is(err, store.ErrNotFound) {
		world = &domain.World{
			ID:        worldID,
			CreatedAt: s.folderCreatedAt(info, modifiedAt),
		}
		if err := s.store.CreateWorld(ctx, world); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("create world: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("get world: %w", err)
	}

	s.refreshMetadata(ctx, worldID)

	// The folder watermark gates the image diff: an unchanged mtime means
	// the folder contents are assumed unchanged.
	if world.LastFolderModifiedAt.Equal(modifiedAt) {
		return nil
	}

	added, err := s.reconcileImages(ctx, worldID)
	if err != nil {
		return err
	}

	// Advance the watermark only once everything seen in this pass has been
	// queued and nothing is left to convert. If conversions are pending and
	// the process dies, the stale watermark forces a re-diff on the next
	// scan, which re-queues whatever never got recorded.
	if added == 0 {
		if err := s.store.SetLastFolderModified(ctx, worldID, modifiedAt); err != nil {
			return fmt.Errorf("advance watermark: %w", err)
		}
	}

	return nil
}

// folderCreatedAt derives a world's creation time from its folder. Folder
// birth time is used where the platform reports one, except when it matches
// the modification time, which usually means the filesystem faked it.
func (s *Scanner) folderCreatedAt(info os.FileInfo, modifiedAt time.Time) time.Time {
	if bt, ok := birthTime(info); ok && !bt.UTC().Equal(modifiedAt) {
		return bt.UTC()
	}
	return s.now().UTC()
}

// refreshMetadata fetches remote metadata when the cached snapshot is stale
// or missing. Fetch failures are tolerated; the catalog keeps serving the
// last snapshot.
func (s *Scanner) refreshMetadata(ctx context.Context, worldID string) {
	cached, err := s.store.GetMetadata(ctx, worldID)
	if err == nil && cached.IsFresh(s.now(), s.metadataTTL) {
		return
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("read cached metadata", "world_id", worldID, "error", err)
		return
	}

	meta, err := s.fetcher.FetchWorld(ctx, worldID)
	if err != nil {
		s.logger.Warn("metadata refresh failed",
			"world_id", worldID,
			"error", err,
		)
		return
	}

	if err := s.store.PutMetadata(ctx, meta); err != nil {
		s.logger.Warn("store metadata", "world_id", worldID, "error", err)
	}
}

// reconcileImages diffs the folder contents against the recorded images,
// queueing conversions for new files and dropping records and renditions for
// files that disappeared. Returns how many conversions were queued.
func (s *Scanner) reconcileImages(ctx context.Context, worldID string) (int, error) {
	entries, err := os.ReadDir(s.resolver.WorldDir(worldID))
	if err != nil {
		return 0, fmt.Errorf("read folder: %w", err)
	}

	present := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !paths.IsImageFile(entry.Name()) {
			continue
		}
		present[entry.Name()] = true
	}

	stored, err := s.store.ListImageFilenames(ctx, worldID)
	if err != nil {
		return 0, fmt.Errorf("list recorded images: %w", err)
	}
	storedSet := make(map[string]bool, len(stored))
	for _, name := range stored {
		storedSet[name] = true
	}

	added := 0
	for name := range present {
		if !storedSet[name] {
			added++
			s.queue.Enqueue(queue.Job{WorldID: worldID, Filename: name})
		}
	}

	for _, name := range stored {
		if present[name] {
			continue
		}
		if err := s.store.RemoveImage(ctx, worldID, name); err != nil {
			return added, fmt.Errorf("remove image record: %w", err)
		}
		removeRendition(s.resolver.Thumb(worldID, name))
		removeRendition(s.resolver.View(worldID, name))
		s.logger.Debug("image removed", "world_id", worldID, "filename", name)
	}

	return added, nil
}

// removeRendition deletes a rendition file. Orphaned renditions are
// preferable to a failed scan, so errors are ignored.
func removeRendition(path string) {
	_ = os.Remove(path)
}
