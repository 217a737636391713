package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldsalbum/worlds-server/internal/domain"
)

func TestCreateAndGetWorld(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mustCreateWorld(t, s, "wrld_abc", created)

	got, err := s.GetWorld(ctx, "wrld_abc")
	require.NoError(t, err)
	assert.Equal(t, "wrld_abc", got.ID)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestCreateWorldDuplicate(t *testing.T) {
	s := setupTestStore(t)

	mustCreateWorld(t, s, "wrld_abc", time.Now())

	err := s.CreateWorld(context.Background(), &domain.World{ID: "wrld_abc", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateWorldInvalidID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.CreateWorld(ctx, &domain.World{ID: "", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	tooLong := strings.Repeat("x", domain.MaxWorldIDLength+1)
	err = s.CreateWorld(ctx, &domain.World{ID: tooLong, CreatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetWorldNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetWorld(context.Background(), "wrld_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHasWorld(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	ok, err := s.HasWorld(ctx, "wrld_abc")
	require.NoError(t, err)
	assert.False(t, ok)

	mustCreateWorld(t, s, "wrld_abc", time.Now())

	ok, err = s.HasWorld(ctx, "wrld_abc")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetLastFolderModified(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mustCreateWorld(t, s, "wrld_abc", created)

	later := created.Add(2 * time.Hour)
	require.NoError(t, s.SetLastFolderModified(ctx, "wrld_abc", later))

	got, err := s.GetWorld(ctx, "wrld_abc")
	require.NoError(t, err)
	assert.True(t, got.LastFolderModifiedAt.Equal(later))
	assert.True(t, got.CreatedAt.Equal(created), "creation time must not change")

	err = s.SetLastFolderModified(ctx, "wrld_missing", later)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountWorlds(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	n, err := s.CountWorlds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	mustCreateWorld(t, s, "wrld_a", time.Now())
	mustCreateWorld(t, s, "wrld_b", time.Now())

	// Records under sibling prefixes must not inflate the count.
	require.NoError(t, s.PutMetadata(ctx, &domain.WorldMetadata{WorldID: "wrld_a"}))

	n, err = s.CountWorlds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
