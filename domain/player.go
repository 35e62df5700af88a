package domain

import "time"

// PlayerStatus tracks where a player is in the turn lifecycle. Any
// non-finished status can be frozen to sleeping; finished is terminal.
type PlayerStatus string

const (
	PlayerWaiting  PlayerStatus = "waiting"
	PlayerActive   PlayerStatus = "active"
	PlayerFinished PlayerStatus = "finished"
	PlayerSleeping PlayerStatus = "sleeping"
)

// Player is a participant moving across the board. Position and resources
// are assigned by the room from its configuration, never from the wire.
type Player struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Position   int          `json:"position"`
	Pearls     int          `json:"pearls"`
	Amulets    int          `json:"amulets"`
	Status     PlayerStatus `json:"status"`
	JoinedAt   time.Time    `json:"joinedAt"`
	FinishedAt *time.Time   `json:"finishedAt,omitempty"`
}
