// Package di provides dependency injection configuration for the worlds
// server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/worldsalbum/worlds-server/internal/config"
	"github.com/worldsalbum/worlds-server/internal/di/providers"
	"github.com/worldsalbum/worlds-server/internal/logger"
	"github.com/worldsalbum/worlds-server/internal/metadata/vrchat"
	"github.com/worldsalbum/worlds-server/internal/paths"
	"github.com/worldsalbum/worlds-server/internal/queue"
	"github.com/worldsalbum/worlds-server/internal/scanner"
	"github.com/worldsalbum/worlds-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvidePathResolver)

	// Catalog store
	do.Provide(injector, providers.ProvideStore)

	// Metadata layer
	do.Provide(injector, providers.ProvideVRChatClient)

	// Scan and conversion pipeline
	do.Provide(injector, providers.ProvideQueue)
	do.Provide(injector, providers.ProvideScanner)
	do.Provide(injector, providers.ProvideConvertWorker)
	do.Provide(injector, providers.ProvideScanLoop)
	do.Provide(injector, providers.ProvideWatcher)

	// Business services
	do.Provide(injector, providers.ProvideWorldService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*paths.Resolver](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*vrchat.Client](injector)

	// Pipeline: workers before the scan loop so the initial scan has
	// consumers.
	_ = do.MustInvoke[*queue.Queue](injector)
	_ = do.MustInvoke[*scanner.Scanner](injector)
	_ = do.MustInvoke[*providers.ConvertWorkerHandle](injector)
	_ = do.MustInvoke[*providers.ScanLoopHandle](injector)
	_ = do.MustInvoke[*providers.WatcherHandle](injector)

	// Services and server
	_ = do.MustInvoke[*service.WorldService](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
