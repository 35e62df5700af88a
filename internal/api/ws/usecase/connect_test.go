package wsUsecase

import (
	"context"
	"testing"

	"boardgame-service/config"
	"boardgame-service/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type hubRecorder struct {
	closeDone bool
	clients   []*domain.Client
}

func (h *hubRecorder) RegisterClient(client *domain.Client) {
	h.clients = append(h.clients, client)
	if h.closeDone {
		close(client.Done)
	}
}

func TestConnectUseCase_Execute_RegistersClient(t *testing.T) {
	t.Parallel()
	hub := &hubRecorder{closeDone: true}
	usecase := NewConnectUseCase(hub, config.LimitsConfig{MessagesPerSecond: 20, MessageBurst: 40})

	usecase.Execute(nil, context.Background())
	usecase.Execute(nil, context.Background())

	require.Len(t, hub.clients, 2)
	client := hub.clients[0]
	assert.NotEmpty(t, client.ID)
	assert.NotEqual(t, client.ID, hub.clients[1].ID)
	assert.Equal(t, 256, cap(client.Send))
	require.NotNil(t, client.Limiter)
	assert.Equal(t, rate.Limit(20), client.Limiter.Limit())
	assert.Equal(t, 40, client.Limiter.Burst())
}

func TestConnectUseCase_Execute_NoLimiterWhenDisabled(t *testing.T) {
	t.Parallel()
	hub := &hubRecorder{closeDone: true}
	usecase := NewConnectUseCase(hub, config.LimitsConfig{})

	usecase.Execute(nil, context.Background())

	require.Len(t, hub.clients, 1)
	assert.Nil(t, hub.clients[0].Limiter)
}

func TestConnectUseCase_Execute_ReturnsOnContextCancel(t *testing.T) {
	t.Parallel()
	hub := &hubRecorder{}
	usecase := NewConnectUseCase(hub, config.LimitsConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The client is never unregistered here, so only the cancelled
	// context lets Execute return.
	usecase.Execute(nil, ctx)
	require.Len(t, hub.clients, 1)
}
