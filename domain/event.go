package domain

import "time"

// EventLogCap bounds the per-room event log. When the cap is reached the
// oldest entries are dropped first.
const EventLogCap = 500

// Event types appended by room operations.
const (
	EventPlayerJoined  = "player_joined"
	EventGameStarted   = "game_started"
	EventDiceRolled    = "dice_rolled"
	EventTurnChanged   = "turn_changed"
	EventGameFinished  = "game_finished"
	EventCommentAdded  = "comment_added"
	EventCellSelected  = "cell_selected"
	EventPlayerPaused  = "player_paused"
	EventPlayerResumed = "player_resumed"
)

// Event is one append-only entry in a room's history. Actor fields are empty
// for events the room emits on its own, such as game_finished.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	ActorRole Role           `json:"actorRole,omitempty"`
	ActorID   string         `json:"actorId,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}
