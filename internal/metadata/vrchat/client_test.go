package vrchat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWorld(t *testing.T) {
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "wrld_abc",
			"name": "Midnight Rooftop",
			"authorId": "usr_1",
			"authorName": "aki",
			"imageUrl": "https://img.example/full.png",
			"thumbnailImageUrl": "https://img.example/thumb.png",
			"capacity": 32,
			"visits": 12000,
			"favorites": 340,
			"heat": 4,
			"popularity": 6,
			"tags": ["author_tag_chill"]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "worlds-album-test/1.0", nil)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	meta, err := c.FetchWorld(context.Background(), "wrld_abc")
	require.NoError(t, err)

	assert.Equal(t, "/worlds/wrld_abc", gotPath)
	assert.Equal(t, "worlds-album-test/1.0", gotUA)
	assert.Equal(t, "wrld_abc", meta.WorldID)
	assert.Equal(t, "Midnight Rooftop", meta.DisplayName)
	assert.Equal(t, "aki", meta.AuthorName)
	assert.Equal(t, "https://img.example/full.png", meta.ImageURL)
	assert.Equal(t, 32, meta.Capacity)
	assert.Equal(t, 12000, meta.Visits)
	assert.Equal(t, []string{"author_tag_chill"}, meta.Tags)
	assert.True(t, meta.RefreshedAt.Equal(fixed))
}

func TestFetchWorldNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test", nil)

	_, err := c.FetchWorld(context.Background(), "wrld_gone")
	assert.ErrorIs(t, err, ErrWorldNotFound)
}

func TestFetchWorldServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test", nil)

	_, err := c.FetchWorld(context.Background(), "wrld_abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrWorldNotFound)
}

func TestFetchWorldCircuitOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test", nil)
	// Relax the limiter so repeated failures do not slow the test down.
	c.limiter.SetLimit(1000)
	c.limiter.SetBurst(1000)

	ctx := context.Background()
	for range 5 {
		_, err := c.FetchWorld(ctx, "wrld_abc")
		require.Error(t, err)
	}

	_, err := c.FetchWorld(ctx, "wrld_abc")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFetchWorldFallsBackToThumbnail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"wrld_abc","name":"W","thumbnailImageUrl":"https://img.example/thumb.png"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test", nil)

	meta, err := c.FetchWorld(context.Background(), "wrld_abc")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/thumb.png", meta.ImageURL)
}
