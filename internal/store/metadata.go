package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/worldsalbum/worlds-server/internal/domain"
)

const worldMetaPrefix = "worldmeta:"

// GetMetadata retrieves the cached remote metadata for a world.
func (s *Store) GetMetadata(ctx context.Context, worldID string) (*domain.WorldMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var m domain.WorldMetadata
	key := []byte(worldMetaPrefix + worldID)

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound.WithMessage("world metadata not found")
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &m)
		})
	})
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// PutMetadata stores remote metadata for a world, replacing any previous
// snapshot.
func (s *Store) PutMetadata(ctx context.Context, m *domain.WorldMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.WorldID == "" {
		return ErrInvalidInput.WithMessage("metadata world ID cannot be empty")
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	key := []byte(worldMetaPrefix + m.WorldID)
	return s.runUpdate(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}
