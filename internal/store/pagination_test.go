package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, ClampPageSize(0))
	assert.Equal(t, DefaultPageSize, ClampPageSize(-5))
	assert.Equal(t, 1, ClampPageSize(1))
	assert.Equal(t, 42, ClampPageSize(42))
	assert.Equal(t, MaxPageSize, ClampPageSize(MaxPageSize+1))
}

func TestListWorldsPageOrdering(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Two worlds share a creation time to exercise the ID tie-break.
	mustCreateWorld(t, s, "wrld_old", base.Add(-time.Hour))
	mustCreateWorld(t, s, "wrld_b", base)
	mustCreateWorld(t, s, "wrld_a", base)
	mustCreateWorld(t, s, "wrld_new", base.Add(time.Hour))

	worlds, err := s.ListWorldsPage(ctx, time.Time{}, "", 10)
	require.NoError(t, err)

	ids := make([]string, len(worlds))
	for i, w := range worlds {
		ids[i] = w.ID
	}
	assert.Equal(t, []string{"wrld_new", "wrld_a", "wrld_b", "wrld_old"}, ids)
}

func TestListWorldsPageCursorTraversal(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ids := []string{"wrld_1", "wrld_2", "wrld_3", "wrld_4", "wrld_5"}
	for i, id := range ids {
		mustCreateWorld(t, s, id, base.Add(time.Duration(i)*time.Minute))
	}

	// Walk the catalog two at a time; every world must appear exactly once.
	seen := make(map[string]int)
	var afterTime time.Time
	var afterID string
	pages := 0

	for {
		page, err := s.ListWorldsPage(ctx, afterTime, afterID, 2)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		pages++
		require.LessOrEqual(t, pages, 10, "runaway pagination")

		for _, w := range page {
			seen[w.ID]++
		}
		last := page[len(page)-1]
		afterTime = last.CreatedAt
		afterID = last.ID
	}

	assert.Len(t, seen, len(ids))
	for _, id := range ids {
		assert.Equal(t, 1, seen[id], "world %s", id)
	}
	assert.Equal(t, 3, pages)
}

func TestListWorldsPageAfterTie(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mustCreateWorld(t, s, "wrld_a", at)
	mustCreateWorld(t, s, "wrld_b", at)
	mustCreateWorld(t, s, "wrld_c", at)

	page, err := s.ListWorldsPage(ctx, at, "wrld_a", 10)
	require.NoError(t, err)

	ids := make([]string, len(page))
	for i, w := range page {
		ids[i] = w.ID
	}
	assert.Equal(t, []string{"wrld_b", "wrld_c"}, ids)
}

func TestListWorldsPageEmptyStore(t *testing.T) {
	s := setupTestStore(t)

	page, err := s.ListWorldsPage(context.Background(), time.Time{}, "", 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestListWorldsPageInvalidLimit(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.ListWorldsPage(context.Background(), time.Time{}, "", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
