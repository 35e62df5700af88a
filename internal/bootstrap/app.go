package bootstrap

import (
	"context"
	"time"

	"boardgame-service/config"
	"boardgame-service/internal/game"
	"boardgame-service/pkg/graceful"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type App struct {
	config       config.Config
	registry     *game.Registry
	fiberApp     *fiber.App
	httpHandlers map[string]interface{}
	wsHandlers   map[string]interface{}
}

func NewApp(config config.Config) *App {
	app := &App{
		config: config,
	}
	app.initDependencies()
	return app
}

func (a *App) initDependencies() {
	ctx := context.Background()

	wsHub, registry := InitWebsocket(ctx, a.config)
	a.registry = registry
	a.httpHandlers = SetupHTTPHandlers(registry)
	a.wsHandlers = SetupWSHandlers(wsHub, a.config)
	a.fiberApp = SetupServer(a.config, a.httpHandlers, a.wsHandlers)
}

func (a *App) Start() {
	go func() {
		address := a.config.Server.Host + ":" + a.config.Server.Port
		if err := a.fiberApp.Listen(address); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", a.config.Server.Port))

	graceful.WaitForShutdown(a.fiberApp, 5*time.Second, context.Background())
}
