package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/worldsalbum/worlds-server/internal/domain"
)

// setupTestStore creates a store backed by a temp directory, cleaned up with
// the test.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

// mustCreateWorld seeds a world with the given creation time.
func mustCreateWorld(t *testing.T, s *Store, worldID string, createdAt time.Time) *domain.World {
	t.Helper()

	w := &domain.World{
		ID:                   worldID,
		CreatedAt:            createdAt,
		LastFolderModifiedAt: createdAt,
	}
	require.NoError(t, s.CreateWorld(context.Background(), w))
	return w
}
