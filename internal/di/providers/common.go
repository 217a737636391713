// Package providers contains the dependency injection providers for the
// worlds server.
package providers

import (
	"fmt"
	"os"
	"time"

	"github.com/samber/do/v2"

	"github.com/worldsalbum/worlds-server/internal/config"
	"github.com/worldsalbum/worlds-server/internal/logger"
	"github.com/worldsalbum/worlds-server/internal/paths"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// ProvideConfig loads the application configuration.
func ProvideConfig(_ do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the application logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return logger.New(logger.Config{
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	}), nil
}

// ProvidePathResolver provides the path resolver and ensures the source and
// rendition roots exist.
func ProvidePathResolver(i do.Injector) (*paths.Resolver, error) {
	cfg := do.MustInvoke[*config.Config](i)

	for _, dir := range []string{cfg.Library.ScanRoot, cfg.Media.ThumbRoot, cfg.Media.ViewRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return paths.NewResolver(cfg.Library.ScanRoot, cfg.Media.ThumbRoot, cfg.Media.ViewRoot), nil
}
