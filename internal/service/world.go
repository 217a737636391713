// Package service provides the business logic layer over the world catalog.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/worldsalbum/worlds-server/internal/cursor"
	"github.com/worldsalbum/worlds-server/internal/domain"
	"github.com/worldsalbum/worlds-server/internal/metadata/vrchat"
	"github.com/worldsalbum/worlds-server/internal/store"
)

// Triggerer requests a scan without blocking.
type Triggerer interface {
	Trigger()
}

// MetadataFetcher retrieves remote metadata for a world.
type MetadataFetcher interface {
	FetchWorld(ctx context.Context, worldID string) (*domain.WorldMetadata, error)
}

// WorldService orchestrates catalog reads and edits.
type WorldService struct {
	store   *store.Store
	scanner Triggerer
	fetcher MetadataFetcher
	logger  *slog.Logger
}

// NewWorldService creates a world service.
func NewWorldService(s *store.Store, scanner Triggerer, fetcher MetadataFetcher, logger *slog.Logger) *WorldService {
	return &WorldService{
		store:   s,
		scanner: scanner,
		fetcher: fetcher,
		logger:  logger,
	}
}

// WorldDetail is a fully assembled catalog entry.
type WorldDetail struct {
	World       *domain.World
	Metadata    *domain.WorldMetadata // nil when never fetched
	Description string
	Categories  []*domain.Category
	Images      []*domain.WorldImage
}

// WorldPage is one page of catalog entries plus the cursor for the next.
type WorldPage struct {
	Worlds     []*WorldDetail
	NextCursor string // empty on the last page
}

// ListWorlds returns a page of worlds ordered newest-first. An empty
// cursorToken starts at the beginning; a malformed one is rejected as
// invalid input.
func (s *WorldService) ListWorlds(ctx context.Context, cursorToken string, pageSize int) (*WorldPage, error) {
	// Browsing doubles as a freshness hint. The trigger coalesces, so a
	// burst of page loads costs at most one scan.
	s.scanner.Trigger()

	limit := store.ClampPageSize(pageSize)

	var afterTime time.Time
	var afterID string
	if cursorToken != "" {
		t, id, err := cursor.Decode(cursorToken)
		if err != nil {
			return nil, store.ErrInvalidInput.WithMessage("malformed cursor").WithCause(err)
		}
		afterTime, afterID = t, id
	}

	worlds, err := s.store.ListWorldsPage(ctx, afterTime, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list worlds: %w", err)
	}

	page := &WorldPage{Worlds: make([]*WorldDetail, 0, len(worlds))}
	for _, w := range worlds {
		detail, err := s.assembleDetail(ctx, w)
		if err != nil {
			return nil, err
		}
		page.Worlds = append(page.Worlds, detail)
	}

	// A short page is the last one; a full page gets a cursor even if the
	// next request turns out empty.
	if len(worlds) == limit {
		last := worlds[len(worlds)-1]
		token, err := cursor.Encode(last.CreatedAt, last.ID)
		if err != nil {
			return nil, fmt.Errorf("encode cursor: %w", err)
		}
		page.NextCursor = token
	}

	return page, nil
}

// GetWorld returns one fully assembled catalog entry.
func (s *WorldService) GetWorld(ctx context.Context, worldID string) (*WorldDetail, error) {
	w, err := s.store.GetWorld(ctx, worldID)
	if err != nil {
		return nil, err
	}
	return s.assembleDetail(ctx, w)
}

func (s *WorldService) assembleDetail(ctx context.Context, w *domain.World) (*WorldDetail, error) {
	detail := &WorldDetail{World: w}

	meta, err := s.store.GetMetadata(ctx, w.ID)
	switch {
	case err == nil:
		detail.Metadata = meta
	case errors.Is(err, store.ErrNotFound):
		// Never fetched; the entry is served without remote metadata.
	default:
		return nil, fmt.Errorf("get metadata: %w", err)
	}

	desc, err := s.store.GetDescription(ctx, w.ID)
	if err != nil {
		return nil, fmt.Errorf("get description: %w", err)
	}
	detail.Description = desc.Text

	cats, err := s.store.ListWorldCategories(ctx, w.ID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	detail.Categories = cats

	images, err := s.store.ListImages(ctx, w.ID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	detail.Images = images

	return detail, nil
}

// SetCategories replaces a world's category assignment.
func (s *WorldService) SetCategories(ctx context.Context, worldID string, names []string) ([]*domain.Category, error) {
	cats, err := s.store.SetWorldCategories(ctx, worldID, names)
	if err != nil {
		return nil, err
	}

	s.logger.Info("world categories updated",
		"world_id", worldID,
		"count", len(cats),
	)
	return cats, nil
}

// SetDescription replaces a world's user-authored description.
func (s *WorldService) SetDescription(ctx context.Context, worldID, text string) error {
	if err := s.store.SetDescription(ctx, worldID, text); err != nil {
		return err
	}

	s.logger.Info("world description updated", "world_id", worldID)
	return nil
}

// ListCategories returns every category in the catalog.
func (s *WorldService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.store.ListCategories(ctx)
}

// FetchLiveMetadata fetches the current remote snapshot for a world,
// bypassing the cached copy. The catalog is not modified.
func (s *WorldService) FetchLiveMetadata(ctx context.Context, worldID string) (*domain.WorldMetadata, error) {
	meta, err := s.fetcher.FetchWorld(ctx, worldID)
	switch {
	case errors.Is(err, vrchat.ErrWorldNotFound):
		return nil, store.ErrNotFound.WithMessage("world not found on remote API")
	case errors.Is(err, vrchat.ErrUnavailable):
		return nil, store.ErrUnavailable.WithCause(err)
	case err != nil:
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}
	return meta, nil
}

// TriggerScan requests a scan of the source tree without waiting for it.
func (s *WorldService) TriggerScan() {
	s.scanner.Trigger()
	s.logger.Info("scan triggered")
}

// Stats summarizes the catalog.
type Stats struct {
	Worlds     int
	Categories int
}

// GetStats returns catalog counts.
func (s *WorldService) GetStats(ctx context.Context) (*Stats, error) {
	worlds, err := s.store.CountWorlds(ctx)
	if err != nil {
		return nil, err
	}
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Worlds: worlds, Categories: len(cats)}, nil
}
