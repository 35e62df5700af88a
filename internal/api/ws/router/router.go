package router

import (
	"encoding/json"
	"fmt"
	"strings"

	"boardgame-service/domain"
	"boardgame-service/internal/game"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Rooms is the registry surface the router drives.
type Rooms interface {
	CreateRoom(templateID string, firstJoinerTurn *bool) (*game.Room, error)
	FindByID(id string) (*game.Room, bool)
	FindByCode(code string) (*game.Room, bool)
}

// Sender is the hub surface the router drives: connection bindings plus
// unicast replies. Broadcasts go out from inside the room itself.
type Sender interface {
	BindRoom(client *domain.Client, roomID string, role domain.Role, playerID string)
	SetPlayerID(client *domain.Client, playerID string)
	ClearBinding(client *domain.Client)
	Binding(client *domain.Client) (roomID string, role domain.Role, playerID string)
	SendMessage(client *domain.Client, msgType string, payload any)
	SendError(client *domain.Client, message string)
}

// Router decodes inbound envelopes and routes them to room operations.
type Router struct {
	rooms    Rooms
	sender   Sender
	validate *validator.Validate
}

func NewRouter(rooms Rooms, sender Sender) *Router {
	return &Router{
		rooms:    rooms,
		sender:   sender,
		validate: validator.New(),
	}
}

// Dispatch handles one raw frame from a connection. Every failure path
// answers the sender with an error envelope; nobody else sees it.
func (rt *Router) Dispatch(client *domain.Client, raw []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("panic while handling message",
				zap.String("conn_id", client.ID), zap.Any("panic", rec))
			rt.sender.SendError(client, "internal error")
		}
	}()

	var msg domain.ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		rt.sender.SendError(client, "malformed message envelope")
		return
	}

	if err := rt.route(client, msg); err != nil {
		rt.sender.SendError(client, err.Error())
	}
}

func (rt *Router) route(client *domain.Client, msg domain.ClientMessage) error {
	switch msg.Type {
	case domain.MsgCreateGame:
		return rt.createGame(client, msg.Payload)
	case domain.MsgJoinAsHost:
		return rt.joinAsHost(client, msg.Payload)
	case domain.MsgJoinAsPlayer:
		return rt.joinAsPlayer(client, msg.Payload)
	case domain.MsgJoinAsScreen:
		return rt.joinAsScreen(client, msg.Payload)
	case domain.MsgStartGame:
		return rt.withRoom(client, func(room *game.Room, actor game.Actor) error {
			return room.Start(actor)
		})
	case domain.MsgRollDiceAuto:
		return rt.withRoom(client, func(room *game.Room, actor game.Actor) error {
			return room.RollAuto(actor)
		})
	case domain.MsgRollDiceManual:
		return rt.rollDiceManual(client, msg.Payload)
	case domain.MsgNextTurn:
		return rt.withRoom(client, func(room *game.Room, actor game.Actor) error {
			return room.NextTurn(actor)
		})
	case domain.MsgAddComment:
		return rt.addComment(client, msg.Payload)
	case domain.MsgSelectCell:
		return rt.selectCell(client, msg.Payload)
	case domain.MsgPausePlayer:
		return rt.pausePlayer(client, msg.Payload)
	case domain.MsgResumePlayer:
		return rt.resumePlayer(client, msg.Payload)
	default:
		return fmt.Errorf("unknown message type %q: %w", msg.Type, domain.ErrInvalidInput)
	}
}

// decodePayload unmarshals and validates one payload struct.
func decodePayload[P any](rt *Router, raw json.RawMessage) (*P, error) {
	var payload P
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("malformed payload: %w", domain.ErrInvalidInput)
		}
	}
	if err := rt.validate.Struct(&payload); err != nil {
		return nil, fmt.Errorf("payload validation failed: %s: %w", err.Error(), domain.ErrInvalidInput)
	}
	return &payload, nil
}

// withRoom resolves the connection's bound room and runs op as the bound
// actor. Connections that never joined get a conflict.
func (rt *Router) withRoom(client *domain.Client, op func(room *game.Room, actor game.Actor) error) error {
	roomID, role, playerID := rt.sender.Binding(client)
	if roomID == "" {
		return fmt.Errorf("connection has not joined a room: %w", domain.ErrConflict)
	}
	room, ok := rt.rooms.FindByID(roomID)
	if !ok {
		return fmt.Errorf("room no longer exists: %w", domain.ErrNotFound)
	}
	return op(room, game.Actor{ConnID: client.ID, Role: role, PlayerID: playerID})
}

func (rt *Router) createGame(client *domain.Client, raw json.RawMessage) error {
	payload, err := decodePayload[domain.CreateGamePayload](rt, raw)
	if err != nil {
		return err
	}
	if roomID, _, _ := rt.sender.Binding(client); roomID != "" {
		return fmt.Errorf("connection is already in a room: %w", domain.ErrConflict)
	}

	room, err := rt.rooms.CreateRoom(payload.TemplateID, payload.FirstPlayerOnJoin)
	if err != nil {
		return err
	}

	rt.sender.BindRoom(client, room.ID(), domain.RoleHost, "")
	rt.sender.SendMessage(client, domain.MsgGameCreated, domain.GameCreatedPayload{
		RoomID: room.ID(),
		Code:   room.Code(),
	})
	if err := room.AttachHost(client.ID); err != nil {
		rt.sender.ClearBinding(client)
		return err
	}
	return nil
}

func (rt *Router) joinAsHost(client *domain.Client, raw json.RawMessage) error {
	payload, err := decodePayload[domain.JoinAsHostPayload](rt, raw)
	if err != nil {
		return err
	}
	if roomID, _, _ := rt.sender.Binding(client); roomID != "" {
		return fmt.Errorf("connection is already in a room: %w", domain.ErrConflict)
	}

	code := normalizeCode(payload.Code)
	room, ok := rt.rooms.FindByCode(code)
	if !ok {
		return fmt.Errorf("room with code %s: %w", code, domain.ErrNotFound)
	}

	rt.sender.BindRoom(client, room.ID(), domain.RoleHost, "")
	if err := room.AttachHost(client.ID); err != nil {
		rt.sender.ClearBinding(client)
		return err
	}
	return nil
}

func (rt *Router) joinAsPlayer(client *domain.Client, raw json.RawMessage) error {
	payload, err := decodePayload[domain.JoinAsPlayerPayload](rt, raw)
	if err != nil {
		return err
	}
	if roomID, _, _ := rt.sender.Binding(client); roomID != "" {
		return fmt.Errorf("connection is already in a room: %w", domain.ErrConflict)
	}

	code := normalizeCode(payload.Code)
	room, ok := rt.rooms.FindByCode(code)
	if !ok {
		return fmt.Errorf("room with code %s: %w", code, domain.ErrNotFound)
	}

	if payload.PlayerID != "" {
		player, err := room.Reconnect(payload.PlayerID)
		if err != nil {
			return err
		}
		rt.sender.BindRoom(client, room.ID(), domain.RolePlayer, player.ID)
		room.SendStateTo(client.ID)
		return nil
	}

	// Bind before joining so the join broadcast reaches this connection.
	rt.sender.BindRoom(client, room.ID(), domain.RolePlayer, "")
	player, err := room.Join(payload.Name)
	if err != nil {
		rt.sender.ClearBinding(client)
		return err
	}
	rt.sender.SetPlayerID(client, player.ID)
	return nil
}

func (rt *Router) joinAsScreen(client *domain.Client, raw json.RawMessage) error {
	payload, err := decodePayload[domain.JoinAsScreenPayload](rt, raw)
	if err != nil {
		return err
	}
	if roomID, _, _ := rt.sender.Binding(client); roomID != "" {
		return fmt.Errorf("connection is already in a room: %w", domain.ErrConflict)
	}

	code := normalizeCode(payload.Code)
	room, ok := rt.rooms.FindByCode(code)
	if !ok {
		return fmt.Errorf("room with code %s: %w", code, domain.ErrNotFound)
	}

	rt.sender.BindRoom(client, room.ID(), domain.RoleScreen, "")
	room.AddScreen(client.ID)
	return nil
}

func (rt *Router) rollDiceManual(client *domain.Client, raw json.RawMessage) error {
	payload, err := decodePayload[domain.RollDiceManualPayload](rt, raw)
	if err != nil {
		return err
	}
	return rt.withRoom(client, func(room *game.Room, actor game.Actor) error {
		return room.RollManual(actor, payload.Value)
	})
}

func (rt *Router) addComment(client *domain.Client, raw json.RawMessage) error {
	payload, err := decodePayload[domain.AddCommentPayload](rt, raw)
	if err != nil {
		return err
	}
	return rt.withRoom(client, func(room *game.Room, actor game.Actor) error {
		return room.AddComment(actor, payload.Text)
	})
}

func (rt *Router) selectCell(client *domain.Client, raw json.RawMessage) error {
	payload, err := decodePayload[domain.SelectCellPayload](rt, raw)
	if err != nil {
		return err
	}
	return rt.withRoom(client, func(room *game.Room, actor game.Actor) error {
		return room.SelectCell(actor, payload.Cell)
	})
}

func (rt *Router) pausePlayer(client *domain.Client, raw json.RawMessage) error {
	payload, err := decodePayload[domain.PlayerRefPayload](rt, raw)
	if err != nil {
		return err
	}
	return rt.withRoom(client, func(room *game.Room, actor game.Actor) error {
		return room.PausePlayer(actor, payload.PlayerID)
	})
}

func (rt *Router) resumePlayer(client *domain.Client, raw json.RawMessage) error {
	payload, err := decodePayload[domain.PlayerRefPayload](rt, raw)
	if err != nil {
		return err
	}
	return rt.withRoom(client, func(room *game.Room, actor game.Actor) error {
		return room.ResumePlayer(actor, payload.PlayerID)
	})
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
