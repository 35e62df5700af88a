package bootstrap

import (
	"time"

	"boardgame-service/config"
	httpGameHandler "boardgame-service/internal/api/http/handler"
	wsHandler "boardgame-service/internal/api/ws/handler"
	"boardgame-service/internal/handler"
	"boardgame-service/internal/server"

	"github.com/gofiber/fiber/v2"
)

func SetupServer(appConfig config.Config, httpHandlers map[string]interface{}, wsHandlers map[string]interface{}) *fiber.App {

	serverConfig := server.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	app := server.NewFiberApp(serverConfig)

	roomInfoHandler := httpHandlers["room-info"].(*httpGameHandler.RoomInfoHandler)
	app.Get("/rooms/:code", handler.HandleWithFiber[httpGameHandler.RoomInfoRequest, httpGameHandler.RoomInfoResponse](roomInfoHandler))

	connectHandler := wsHandlers["connect"].(*wsHandler.ConnectHandler)
	app.Get("/ws", handler.HandleWithFiberWS[wsHandler.ConnectRequest](connectHandler))

	return app
}
