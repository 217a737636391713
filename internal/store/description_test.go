package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetDescription(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreateWorld(t, s, "wrld_abc", time.Now())

	require.NoError(t, s.SetDescription(ctx, "wrld_abc", "a cozy rooftop at night"))

	got, err := s.GetDescription(ctx, "wrld_abc")
	require.NoError(t, err)
	assert.Equal(t, "a cozy rooftop at night", got.Text)

	// Overwrite, including clearing.
	require.NoError(t, s.SetDescription(ctx, "wrld_abc", ""))
	got, err = s.GetDescription(ctx, "wrld_abc")
	require.NoError(t, err)
	assert.Empty(t, got.Text)
}

func TestGetDescriptionDefaultsEmpty(t *testing.T) {
	s := setupTestStore(t)

	got, err := s.GetDescription(context.Background(), "wrld_abc")
	require.NoError(t, err)
	assert.Equal(t, "wrld_abc", got.WorldID)
	assert.Empty(t, got.Text)
}

func TestSetDescriptionWorldNotFound(t *testing.T) {
	s := setupTestStore(t)

	err := s.SetDescription(context.Background(), "wrld_missing", "text")
	assert.ErrorIs(t, err, ErrNotFound)
}
