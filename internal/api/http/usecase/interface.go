package httpUsecase

import (
	"boardgame-service/internal/game"
)

type RoomFinder interface {
	FindByCode(code string) (*game.Room, bool)
}
