package bootstrap

import (
	"boardgame-service/config"
	httpHandler "boardgame-service/internal/api/http/handler"
	httpUsecase "boardgame-service/internal/api/http/usecase"
	wsHandler "boardgame-service/internal/api/ws/handler"
	wsUsecase "boardgame-service/internal/api/ws/usecase"
	"boardgame-service/internal/game"
)

func SetupHTTPHandlers(registry *game.Registry) map[string]interface{} {
	roomInfoUseCase := httpUsecase.NewRoomInfoUseCase(registry)
	roomInfoHandler := httpHandler.NewRoomInfoHandler(roomInfoUseCase)

	return map[string]interface{}{
		"room-info": roomInfoHandler,
	}
}

func SetupWSHandlers(wsHub Hub, appConfig config.Config) map[string]interface{} {
	connectUseCase := wsUsecase.NewConnectUseCase(wsHub, appConfig.Limits)
	connectHandler := wsHandler.NewConnectHandler(connectUseCase)

	return map[string]interface{}{
		"connect": connectHandler,
	}
}
