package providers

import (
	"github.com/samber/do/v2"

	"github.com/worldsalbum/worlds-server/internal/config"
	"github.com/worldsalbum/worlds-server/internal/logger"
	"github.com/worldsalbum/worlds-server/internal/metadata/vrchat"
)

// ProvideVRChatClient provides the remote metadata client.
func ProvideVRChatClient(i do.Injector) (*vrchat.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return vrchat.NewClient(cfg.VRChat.BaseURL, cfg.VRChat.UserAgent, log.Logger), nil
}
