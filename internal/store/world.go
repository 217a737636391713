package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/worldsalbum/worlds-server/internal/domain"
)

// Key prefixes for world storage.
const (
	worldPrefix        = "world:"
	worldCreatedPrefix = "idx:world:created:" // invertedNanos:worldID -> empty
)

// worldCreatedKey builds the index key that orders worlds by creation time
// descending with world ID ascending as the tie-break. The timestamp is
// inverted so a plain forward iteration yields newest-first order.
func worldCreatedKey(createdAt time.Time, worldID string) []byte {
	inverted := uint64(math.MaxInt64 - createdAt.UnixNano())
	return fmt.Appendf(nil, "%s%020d:%s", worldCreatedPrefix, inverted, worldID)
}

// worldIDFromCreatedKey extracts the world ID from a created-index key.
func worldIDFromCreatedKey(key []byte) string {
	rest := strings.TrimPrefix(string(key), worldCreatedPrefix)
	_, id, _ := strings.Cut(rest, ":")
	return id
}

// validateWorldID checks the structural constraints on a world ID.
func validateWorldID(worldID string) error {
	if worldID == "" {
		return ErrInvalidInput.WithMessage("world ID cannot be empty")
	}
	if len(worldID) > domain.MaxWorldIDLength {
		return ErrInvalidInput.WithMessage(
			fmt.Sprintf("world ID exceeds %d characters", domain.MaxWorldIDLength))
	}
	return nil
}

// CreateWorld stores a new world and its creation-time index entry.
func (s *Store) CreateWorld(ctx context.Context, w *domain.World) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateWorldID(w.ID); err != nil {
		return err
	}

	key := []byte(worldPrefix + w.ID)

	return s.runUpdate(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists.WithMessage("world already exists")
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(w)
		if err != nil {
			return fmt.Errorf("marshal world: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}

		return txn.Set(worldCreatedKey(w.CreatedAt, w.ID), []byte{})
	})
}

// GetWorld retrieves a world by ID.
func (s *Store) GetWorld(ctx context.Context, worldID string) (*domain.World, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var w domain.World
	key := []byte(worldPrefix + worldID)

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound.WithMessage("world not found")
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &w)
		})
	})
	if err != nil {
		return nil, err
	}

	return &w, nil
}

// HasWorld reports whether a world record exists.
func (s *Store) HasWorld(ctx context.Context, worldID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(worldPrefix + worldID))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetLastFolderModified advances the folder watermark for a world.
func (s *Store) SetLastFolderModified(ctx context.Context, worldID string, modifiedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(worldPrefix + worldID)

	return s.runUpdate(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound.WithMessage("world not found")
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

		w.LastFolderModifiedAt = modifiedAt

		data, err := json.Marshal(&w)
		if err != nil {
			return fmt.Errorf("marshal world: %w", err)
		}
		return txn.Set(key, data)
	})
}

// CountWorlds returns the number of stored worlds.
func (s *Store) CountWorlds(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	prefix := []byte(worldPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})

	return count, err
}
