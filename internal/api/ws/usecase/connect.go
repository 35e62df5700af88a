package wsUsecase

import (
	"context"

	"boardgame-service/config"
	"boardgame-service/domain"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type connectUseCase struct {
	hub    Hub
	limits config.LimitsConfig
}

func NewConnectUseCase(hub Hub, limits config.LimitsConfig) ConnectUseCase {
	return &connectUseCase{
		hub:    hub,
		limits: limits,
	}
}

// Execute turns the upgraded connection into a hub client and parks the
// fiber handler goroutine until the connection is unregistered. Returning
// earlier would let fiber close the underlying connection while the pumps
// still use it.
func (u *connectUseCase) Execute(c *websocket.Conn, ctx context.Context) {
	var limiter *rate.Limiter
	if u.limits.MessagesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(u.limits.MessagesPerSecond), u.limits.MessageBurst)
	}

	client := &domain.Client{
		ID:      uuid.NewString(),
		Conn:    c,
		Send:    make(chan []byte, 256),
		Done:    make(chan struct{}),
		Limiter: limiter,
	}

	u.hub.RegisterClient(client)

	select {
	case <-client.Done:
	case <-ctx.Done():
	}
}
