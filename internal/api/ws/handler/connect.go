package wsHandler

import (
	"context"

	wsUsecase "boardgame-service/internal/api/ws/usecase"

	"github.com/gofiber/contrib/websocket"
)

// ConnectHandler upgrades anonymous websocket connections. Identity only
// emerges later from the first join message, so the request carries nothing.
type ConnectHandler struct {
	usecase wsUsecase.ConnectUseCase
}

type ConnectRequest struct {
}

func NewConnectHandler(usecase wsUsecase.ConnectUseCase) *ConnectHandler {
	return &ConnectHandler{
		usecase: usecase,
	}
}

func (h *ConnectHandler) HandleWS(c *websocket.Conn, ctx context.Context, req *ConnectRequest) {
	h.usecase.Execute(c, ctx)
}
