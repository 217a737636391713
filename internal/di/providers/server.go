package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/worldsalbum/worlds-server/internal/api"
	"github.com/worldsalbum/worlds-server/internal/config"
	"github.com/worldsalbum/worlds-server/internal/logger"
	"github.com/worldsalbum/worlds-server/internal/metadata/vrchat"
	"github.com/worldsalbum/worlds-server/internal/scanner"
	"github.com/worldsalbum/worlds-server/internal/service"
)

// ProvideWorldService provides the world catalog service.
func ProvideWorldService(i do.Injector) (*service.WorldService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sc := do.MustInvoke[*scanner.Scanner](i)
	client := do.MustInvoke[*vrchat.Client](i)

	return service.NewWorldService(storeHandle.Store, sc, client, log.Logger), nil
}

// HTTPServerHandle wraps the HTTP server for lifecycle management.
type HTTPServerHandle struct {
	Server *http.Server
}

// Shutdown gracefully stops the HTTP server.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	worldService := do.MustInvoke[*service.WorldService](i)

	apiServer := api.NewServer(worldService, api.Config{
		ThumbRoot: cfg.Media.ThumbRoot,
		ViewRoot:  cfg.Media.ViewRoot,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
