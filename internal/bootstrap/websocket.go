package bootstrap

import (
	"context"

	"boardgame-service/config"
	"boardgame-service/domain"
	"boardgame-service/internal/game"
	"boardgame-service/internal/initializer"
)

type Hub interface {
	RegisterClient(client *domain.Client)
}

func InitWebsocket(ctx context.Context, appConfig config.Config) (Hub, *game.Registry) {
	return initializer.InitWebsocket(ctx, appConfig)
}
