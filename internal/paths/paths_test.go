package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver(t *testing.T) {
	r := NewResolver("/srv/worlds", "/srv/thumb", "/srv/view")

	assert.Equal(t, filepath.Join("/srv/worlds", "wrld_abc"), r.WorldDir("wrld_abc"))
	assert.Equal(t, filepath.Join("/srv/worlds", "wrld_abc", "shot.png"), r.Origin("wrld_abc", "shot.png"))
	assert.Equal(t, filepath.Join("/srv/thumb", "wrld_abc", "shot.jpg"), r.Thumb("wrld_abc", "shot.png"))
	assert.Equal(t, filepath.Join("/srv/view", "wrld_abc", "shot.jpg"), r.View("wrld_abc", "shot.png"))
}

func TestRenditionNameKeepsBase(t *testing.T) {
	r := NewResolver("/s", "/t", "/v")

	// Same base with different source extensions collides on purpose; the
	// last conversion wins.
	assert.Equal(t, r.Thumb("w", "a.png"), r.Thumb("w", "a.webp"))
	assert.Equal(t, filepath.Join("/t", "w", "noext.jpg"), r.Thumb("w", "noext"))
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("shot.png"))
	assert.True(t, IsImageFile("SHOT.JPG"))
	assert.True(t, IsImageFile("pic.jfif"))
	assert.True(t, IsImageFile("pic.webp"))
	assert.True(t, IsImageFile("pic.bmp"))
	assert.False(t, IsImageFile("notes.txt"))
	assert.False(t, IsImageFile("archive.zip"))
	assert.False(t, IsImageFile("noext"))
}
