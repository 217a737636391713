package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/worldsalbum/worlds-server/internal/domain"
)

// worldImagePrefix keys image records as worldimg:{worldID}:{filename}.
// Badger iterates keys in byte order, so listings come back sorted by
// filename for free.
const worldImagePrefix = "worldimg:"

func worldImageKey(worldID, filename string) []byte {
	return []byte(worldImagePrefix + worldID + ":" + filename)
}

// AddImage records a converted image for a world. Re-adding the same
// filename overwrites the previous record.
func (s *Store) AddImage(ctx context.Context, img *domain.WorldImage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if img.WorldID == "" || img.Filename == "" {
		return ErrInvalidInput.WithMessage("image world ID and filename are required")
	}

	data, err := json.Marshal(img)
	if err != nil {
		return fmt.Errorf("marshal image: %w", err)
	}

	key := worldImageKey(img.WorldID, img.Filename)
	return s.runUpdate(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// RemoveImage deletes the record for a source image that disappeared.
// Removing an unknown filename is a no-op.
func (s *Store) RemoveImage(ctx context.Context, worldID, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := worldImageKey(worldID, filename)
	return s.runUpdate(func(txn *badger.Txn) error {
		err := txn.Delete(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// ListImages returns all recorded images for a world, sorted by filename.
func (s *Store) ListImages(ctx context.Context, worldID string) ([]*domain.WorldImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(worldImagePrefix + worldID + ":")
	var images []*domain.WorldImage

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var img domain.WorldImage
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &img)
			})
			if err != nil {
				return err
			}
			images = append(images, &img)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return images, nil
}

// ListImageFilenames returns the recorded source filenames for a world.
// The scanner diffs these against the folder contents.
func (s *Store) ListImageFilenames(ctx context.Context, worldID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := worldImagePrefix + worldID + ":"
	var filenames []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			key := string(it.Item().Key())
			filenames = append(filenames, strings.TrimPrefix(key, prefix))
		}
		return nil
	})

	return filenames, err
}
