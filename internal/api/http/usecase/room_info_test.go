package httpUsecase

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"boardgame-service/domain"
	"boardgame-service/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomInfoUseCase_Execute(t *testing.T) {
	t.Parallel()
	registry := game.NewRegistry(game.Settings{StartCell: 1, FinalCell: 40}, 6, nil)
	room, err := registry.CreateRoom("template-classic", nil)
	require.NoError(t, err)
	_, err = room.Join("alice")
	require.NoError(t, err)

	usecase := NewRoomInfoUseCase(registry)

	// Lookups normalize the code, so a lowercase copy resolves too.
	state, status, err := usecase.Execute(context.Background(), strings.ToLower(room.Code()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, room.ID(), state.ID)
	assert.Equal(t, room.Code(), state.Code)
	assert.Len(t, state.Players, 1)
}

func TestRoomInfoUseCase_Execute_UnknownCode(t *testing.T) {
	t.Parallel()
	registry := game.NewRegistry(game.Settings{}, 6, nil)
	usecase := NewRoomInfoUseCase(registry)

	state, status, err := usecase.Execute(context.Background(), "QQQQQQ")

	assert.Nil(t, state)
	assert.Equal(t, http.StatusNotFound, status)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
