package domain

import "encoding/json"

// Inbound message types.
const (
	MsgCreateGame     = "create_game"
	MsgJoinAsHost     = "join_as_host"
	MsgJoinAsPlayer   = "join_as_player"
	MsgJoinAsScreen   = "join_as_screen"
	MsgStartGame      = "start_game"
	MsgRollDiceAuto   = "roll_dice_auto"
	MsgRollDiceManual = "roll_dice_manual"
	MsgNextTurn       = "next_turn"
	MsgAddComment     = "add_comment"
	MsgSelectCell     = "select_cell"
	MsgPausePlayer    = "pause_player"
	MsgResumePlayer   = "resume_player"
)

// Outbound message types.
const (
	MsgGameCreated = "game_created"
	MsgRoomState   = "room_state"
	MsgError       = "error"
)

// ClientMessage is the envelope every inbound frame must carry. The payload
// stays raw until the router knows which shape to decode it into.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage is the envelope for everything sent back to clients.
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type CreateGamePayload struct {
	TemplateID string `json:"templateId" validate:"required"`
	// FirstPlayerOnJoin overrides the configured first-joiner policy for
	// this room when present.
	FirstPlayerOnJoin *bool `json:"firstPlayerOnJoin"`
}

type JoinAsHostPayload struct {
	Code string `json:"code" validate:"required,alphanum"`
}

type JoinAsPlayerPayload struct {
	Code string `json:"code" validate:"required,alphanum"`
	Name string `json:"name" validate:"required,max=32"`
	// PlayerID rebinds the connection to an existing player instead of
	// creating a new one.
	PlayerID string `json:"playerId" validate:"omitempty,uuid4"`
}

type JoinAsScreenPayload struct {
	Code string `json:"code" validate:"required,alphanum"`
}

type RollDiceManualPayload struct {
	Value int `json:"value" validate:"required,min=1,max=6"`
}

type AddCommentPayload struct {
	Text string `json:"text" validate:"required,max=500"`
}

type SelectCellPayload struct {
	Cell int `json:"cell" validate:"required,min=1"`
}

type PlayerRefPayload struct {
	PlayerID string `json:"playerId" validate:"required,uuid4"`
}

// GameCreatedPayload answers a successful create_game on the creating
// connection only; everyone else learns about the room via room_state.
type GameCreatedPayload struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}

// ErrorPayload is the unicast error envelope body. Errors are never
// broadcast.
type ErrorPayload struct {
	Message string `json:"message"`
}
