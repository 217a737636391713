package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/worldsalbum/worlds-server/internal/domain"
	"github.com/worldsalbum/worlds-server/internal/id"
)

// Key prefixes for category storage.
const (
	categoryPrefix     = "category:"
	categoryNamePrefix = "idx:category:name:"  // lowercased name -> category ID
	worldCategoryIdx   = "idx:world:category:" // worldID:categoryID -> empty
)

// SetWorldCategories replaces the category assignment of a world with the
// given names, creating categories that do not exist yet. Names are trimmed,
// deduplicated case-insensitively, and blank entries are dropped; if nothing
// remains the assignment is left untouched. The whole replacement runs in a
// single transaction, so concurrent updates to the same world either fully
// apply or fully lose.
func (s *Store) SetWorldCategories(ctx context.Context, worldID string, names []string) ([]*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Normalize and dedupe before touching the database. The first spelling
	// of a name wins for display purposes.
	seen := make(map[string]bool, len(names))
	normalized := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := domain.NormalizeCategoryName(name)
		if trimmed == "" {
			continue
		}
		key := domain.CategoryNameKey(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		normalized = append(normalized, trimmed)
	}

	if len(normalized) == 0 {
		return s.ListWorldCategories(ctx, worldID)
	}

	var result []*domain.Category

	err := s.runUpdate(func(txn *badger.Txn) error {
		result = result[:0]

		if _, err := txn.Get([]byte(worldPrefix + worldID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound.WithMessage("world not found")
			}
			return err
		}

		// Resolve or create each category.
		desired := make(map[string]bool, len(normalized))
		for _, name := range normalized {
			cat, err := getOrCreateCategory(txn, name)
			if err != nil {
				return err
			}
			desired[cat.ID] = true
			result = append(result, cat)
		}

		// Diff against the current links and apply only the delta.
		current, err := worldCategoryIDs(txn, worldID)
		if err != nil {
			return err
		}

		for _, catID := range current {
			if !desired[catID] {
				linkKey := []byte(worldCategoryIdx + worldID + ":" + catID)
				if err := txn.Delete(linkKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
					return err
				}
			}
		}

		currentSet := make(map[string]bool, len(current))
		for _, catID := range current {
			currentSet[catID] = true
		}
		for catID := range desired {
			if !currentSet[catID] {
				linkKey := []byte(worldCategoryIdx + worldID + ":" + catID)
				if err := txn.Set(linkKey, []byte{}); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sortCategories(result)
	return result, nil
}

// getOrCreateCategory resolves a category by normalized name inside txn,
// creating it when missing.
func getOrCreateCategory(txn *badger.Txn, name string) (*domain.Category, error) {
	nameKey := []byte(categoryNamePrefix + domain.CategoryNameKey(name))

	item, err := txn.Get(nameKey)
	if err == nil {
		var catID string
		if err := item.Value(func(val []byte) error {
			catID = string(val)
			return nil
		}); err != nil {
			return nil, err
		}
		return getCategory(txn, catID)
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, err
	}

	catID, err := id.Generate("cat")
	if err != nil {
		return nil, fmt.Errorf("generate category ID: %w", err)
	}

	cat := &domain.Category{ID: catID, Name: name}
	data, err := json.Marshal(cat)
	if err != nil {
		return nil, fmt.Errorf("marshal category: %w", err)
	}

	if err := txn.Set([]byte(categoryPrefix+catID), data); err != nil {
		return nil, err
	}
	if err := txn.Set(nameKey, []byte(catID)); err != nil {
		return nil, err
	}

	return cat, nil
}

func getCategory(txn *badger.Txn, catID string) (*domain.Category, error) {
	item, err := txn.Get([]byte(categoryPrefix + catID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound.WithMessage("category not found")
	}
	if err != nil {
		return nil, err
	}

	var cat domain.Category
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &cat)
	}); err != nil {
		return nil, err
	}
	return &cat, nil
}

// worldCategoryIDs lists the category IDs linked to a world inside txn.
func worldCategoryIDs(txn *badger.Txn, worldID string) ([]string, error) {
	prefix := worldCategoryIdx + worldID + ":"
	var catIDs []string

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchValues = false

	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		key := string(it.Item().Key())
		catIDs = append(catIDs, strings.TrimPrefix(key, prefix))
	}
	return catIDs, nil
}

// ListWorldCategories returns the categories assigned to a world, sorted by
// name.
func (s *Store) ListWorldCategories(ctx context.Context, worldID string) ([]*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cats []*domain.Category

	err := s.db.View(func(txn *badger.Txn) error {
		catIDs, err := worldCategoryIDs(txn, worldID)
		if err != nil {
			return err
		}

		for _, catID := range catIDs {
			cat, err := getCategory(txn, catID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}
			cats = append(cats, cat)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortCategories(cats)
	return cats, nil
}

// ListCategories returns all categories in the catalog, sorted by name.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cats []*domain.Category
	prefix := []byte(categoryPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var cat domain.Category
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &cat)
			})
			if err != nil {
				return err
			}
			cats = append(cats, &cat)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortCategories(cats)
	return cats, nil
}

func sortCategories(cats []*domain.Category) {
	slices.SortFunc(cats, func(a, b *domain.Category) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
