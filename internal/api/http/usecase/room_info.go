package httpUsecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"boardgame-service/domain"
)

type RoomInfoUseCase interface {
	Execute(ctx context.Context, code string) (*domain.RoomState, int, error)
}

type roomInfoUseCase struct {
	rooms RoomFinder
}

func NewRoomInfoUseCase(rooms RoomFinder) RoomInfoUseCase {
	return &roomInfoUseCase{
		rooms: rooms,
	}
}

func (u *roomInfoUseCase) Execute(ctx context.Context, code string) (*domain.RoomState, int, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	room, ok := u.rooms.FindByCode(code)
	if !ok {
		return nil, http.StatusNotFound, fmt.Errorf("room with code %s: %w", code, domain.ErrNotFound)
	}

	state := room.Snapshot()
	return &state, http.StatusOK, nil
}
