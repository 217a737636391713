package providers

import (
	"github.com/samber/do/v2"

	"github.com/worldsalbum/worlds-server/internal/config"
	"github.com/worldsalbum/worlds-server/internal/logger"
	"github.com/worldsalbum/worlds-server/internal/store"
)

// StoreHandle wraps the store for lifecycle management.
type StoreHandle struct {
	Store *store.Store
}

// Shutdown closes the database.
func (h *StoreHandle) Shutdown() error {
	return h.Store.Close()
}

// ProvideStore provides the catalog store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	s, err := store.New(cfg.Data.BasePath, log.Logger)
	if err != nil {
		return nil, err
	}

	return &StoreHandle{Store: s}, nil
}
