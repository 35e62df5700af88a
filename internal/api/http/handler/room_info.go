package handler

import (
	"context"
	"time"

	"boardgame-service/domain"
	httpUsecase "boardgame-service/internal/api/http/usecase"

	"github.com/gofiber/fiber/v2"
)

type RoomInfoRequest struct {
	Code string `params:"code" validate:"required,alphanum"`
}

// RoomInfoResponse is a thin summary for lobby pages; the full state only
// travels over the websocket.
type RoomInfoResponse struct {
	ID          string            `json:"id"`
	Code        string            `json:"code"`
	Status      domain.RoomStatus `json:"status"`
	PlayerCount int               `json:"playerCount"`
	TurnNumber  int               `json:"turnNumber"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type RoomInfoHandler struct {
	usecase httpUsecase.RoomInfoUseCase
}

func NewRoomInfoHandler(usecase httpUsecase.RoomInfoUseCase) *RoomInfoHandler {
	return &RoomInfoHandler{
		usecase: usecase,
	}
}

func (h *RoomInfoHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *RoomInfoRequest) (*RoomInfoResponse, int, error) {
	state, status, err := h.usecase.Execute(ctx, req.Code)
	if err != nil {
		return nil, status, err
	}

	return &RoomInfoResponse{
		ID:          state.ID,
		Code:        state.Code,
		Status:      state.Status,
		PlayerCount: len(state.Players),
		TurnNumber:  state.TurnNumber,
		CreatedAt:   state.CreatedAt,
	}, status, nil
}
