package store

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/worldsalbum/worlds-server/internal/domain"
)

// Page size bounds for world listings.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ClampPageSize normalizes a requested page size into [1, MaxPageSize].
// Zero or negative requests fall back to the default.
func ClampPageSize(requested int) int {
	if requested <= 0 {
		return DefaultPageSize
	}
	if requested > MaxPageSize {
		return MaxPageSize
	}
	return requested
}

// ListWorldsPage returns up to limit worlds ordered by creation time
// descending, with world ID ascending as the tie-break. A zero afterCreatedAt
// starts from the newest world; otherwise the page starts strictly after the
// given (afterCreatedAt, afterWorldID) position.
//
// The ordering comes from the created index: timestamps are stored inverted,
// so a forward key scan walks newest-first, and "strictly after the cursor
// key" is exactly the keyset predicate
// createdAt < t OR (createdAt == t AND worldID > id).
func (s *Store) ListWorldsPage(ctx context.Context, afterCreatedAt time.Time, afterWorldID string, limit int) ([]*domain.World, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, ErrInvalidInput.WithMessage("limit must be positive")
	}

	prefix := []byte(worldCreatedPrefix)

	var cursorKey []byte
	if !afterCreatedAt.IsZero() {
		cursorKey = worldCreatedKey(afterCreatedAt, afterWorldID)
	}

	var worlds []*domain.World

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		start := prefix
		if cursorKey != nil {
			start = cursorKey
		}

		for it.Seek(start); it.ValidForPrefix(prefix) && len(worlds) < limit; it.Next() {
			key := it.Item().Key()
			if cursorKey != nil && bytes.Compare(key, cursorKey) <= 0 {
				continue
			}

			worldID := worldIDFromCreatedKey(key)

			item, err := txn.Get([]byte(worldPrefix + worldID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				// Dangling index entry; skip rather than fail the page.
				continue
			}
			if err != nil {
				return err
			}

			var w domain.World
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &w)
			}); err != nil {
				return err
			}
			worlds = append(worlds, &w)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return worlds, nil
}
