package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/worldsalbum/worlds-server/internal/domain"
)

const worldDescPrefix = "worlddesc:"

// GetDescription retrieves the user-authored description for a world.
// Returns an empty description when none has been set.
func (s *Store) GetDescription(ctx context.Context, worldID string) (*domain.WorldDescription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := domain.WorldDescription{WorldID: worldID}
	key := []byte(worldDescPrefix + worldID)

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &d)
		})
	})
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// SetDescription stores the user-authored description for a world.
// The world must already exist in the catalog.
func (s *Store) SetDescription(ctx context.Context, worldID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d := domain.WorldDescription{WorldID: worldID, Text: text}
	data, err := json.Marshal(&d)
	if err != nil {
		return fmt.Errorf("marshal description: %w", err)
	}

	return s.runUpdate(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(worldPrefix + worldID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound.WithMessage("world not found")
			}
			return err
		}
		return txn.Set([]byte(worldDescPrefix+worldID), data)
	})
}
