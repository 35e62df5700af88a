package wsUsecase

import (
	"context"

	"boardgame-service/domain"

	"github.com/gofiber/contrib/websocket"
)

type ConnectUseCase interface {
	Execute(c *websocket.Conn, ctx context.Context)
}

type Hub interface {
	RegisterClient(client *domain.Client)
}
