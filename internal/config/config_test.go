package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	t.Run("empty uses default", func(t *testing.T) {
		got, err := expandPath("", "/srv/worlds")
		require.NoError(t, err)
		assert.Equal(t, "/srv/worlds", got)
	})

	t.Run("relative becomes absolute", func(t *testing.T) {
		got, err := expandPath("data", "/unused")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})

	t.Run("absolute is cleaned", func(t *testing.T) {
		got, err := expandPath("/srv//worlds/./", "/unused")
		require.NoError(t, err)
		assert.Equal(t, "/srv/worlds", got)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{Environment: "development"},
			Logger: LoggerConfig{Level: "info"},
			Library: LibraryConfig{
				ScanRoot: "/srv/worlds",
			},
			Media: MediaConfig{
				ThumbRoot:    "/srv/thumb",
				ViewRoot:     "/srv/view",
				ThumbQuality: 15,
				ViewQuality:  95,
				Workers:      1,
			},
			Data:  DataConfig{BasePath: "/srv/data"},
			Cache: CacheConfig{MetadataTTL: 1, ScanInterval: 1},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("bad environment", func(t *testing.T) {
		cfg := valid()
		cfg.App.Environment = "prod"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logger.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero workers", func(t *testing.T) {
		cfg := valid()
		cfg.Media.Workers = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.MetadataTTL = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestGetBoolConfigValue(t *testing.T) {
	assert.True(t, getBoolConfigValue("true", "UNSET_KEY", false))
	assert.True(t, getBoolConfigValue("1", "UNSET_KEY", false))
	assert.True(t, getBoolConfigValue("YES", "UNSET_KEY", false))
	assert.False(t, getBoolConfigValue("false", "UNSET_KEY", true))
	assert.True(t, getBoolConfigValue("", "UNSET_KEY", true))
}

func TestGetIntConfigValue(t *testing.T) {
	assert.Equal(t, 42, getIntConfigValue("42", "UNSET_KEY", 7))
	assert.Equal(t, 7, getIntConfigValue("", "UNSET_KEY", 7))
	assert.Equal(t, 7, getIntConfigValue("not-a-number", "UNSET_KEY", 7))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nWORLDS_TEST_KEY=hello\nWORLDS_TEST_QUOTED=\"world\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, loadEnvFile(path))
	t.Cleanup(func() {
		_ = os.Unsetenv("WORLDS_TEST_KEY")
		_ = os.Unsetenv("WORLDS_TEST_QUOTED")
	})

	assert.Equal(t, "hello", getConfigValue("", "WORLDS_TEST_KEY", ""))
	assert.Equal(t, "world", getConfigValue("", "WORLDS_TEST_QUOTED", ""))
}
