package initializer

import (
	"context"

	"boardgame-service/config"
	gameHub "boardgame-service/internal/api/ws/hub"
	"boardgame-service/internal/api/ws/router"
	"boardgame-service/internal/game"
)

// InitWebsocket assembles the realtime pipeline: hub for connections,
// registry for rooms, router for inbound messages. The hub broadcasts for
// the registry's rooms and the router resolves rooms through the registry,
// so the two are wired to each other before the hub loop starts.
func InitWebsocket(ctx context.Context, appConfig config.Config) (*gameHub.Hub, *game.Registry) {
	hub := gameHub.NewHub()

	settings := game.Settings{
		StartCell:                 appConfig.Game.StartCell,
		FinalCell:                 appConfig.Game.FinalCell,
		InitialPearls:             appConfig.Game.InitialPearls,
		InitialAmulets:            appConfig.Game.InitialAmulets,
		FirstJoinerBecomesCurrent: appConfig.Game.FirstJoinerBecomesCurrent,
	}
	registry := game.NewRegistry(settings, appConfig.Game.JoinCodeLength, hub)

	hub.Wire(registry, router.NewRouter(registry, hub))
	go hub.Run(ctx)

	return hub, registry
}
