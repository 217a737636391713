package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldsalbum/worlds-server/internal/domain"
)

func TestAddAndListImages(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreateWorld(t, s, "wrld_abc", time.Now())

	require.NoError(t, s.AddImage(ctx, &domain.WorldImage{
		WorldID: "wrld_abc", Filename: "b.png", Width: 1920, Height: 1080,
	}))
	require.NoError(t, s.AddImage(ctx, &domain.WorldImage{
		WorldID: "wrld_abc", Filename: "a.jpg", Width: 800, Height: 600,
	}))

	images, err := s.ListImages(ctx, "wrld_abc")
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "a.jpg", images[0].Filename)
	assert.Equal(t, "b.png", images[1].Filename)
	assert.Equal(t, 800, images[0].Width)
}

func TestAddImageValidation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.AddImage(ctx, &domain.WorldImage{WorldID: "", Filename: "a.png"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = s.AddImage(ctx, &domain.WorldImage{WorldID: "wrld_abc", Filename: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRemoveImage(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddImage(ctx, &domain.WorldImage{WorldID: "wrld_abc", Filename: "a.png"}))
	require.NoError(t, s.RemoveImage(ctx, "wrld_abc", "a.png"))

	images, err := s.ListImages(ctx, "wrld_abc")
	require.NoError(t, err)
	assert.Empty(t, images)

	// Removing something already gone is fine.
	assert.NoError(t, s.RemoveImage(ctx, "wrld_abc", "a.png"))
}

func TestListImageFilenames(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddImage(ctx, &domain.WorldImage{WorldID: "wrld_abc", Filename: "shot1.png"}))
	require.NoError(t, s.AddImage(ctx, &domain.WorldImage{WorldID: "wrld_abc", Filename: "shot2.png"}))
	require.NoError(t, s.AddImage(ctx, &domain.WorldImage{WorldID: "wrld_other", Filename: "other.png"}))

	names, err := s.ListImageFilenames(ctx, "wrld_abc")
	require.NoError(t, err)
	assert.Equal(t, []string{"shot1.png", "shot2.png"}, names)
}
