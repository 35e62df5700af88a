package domain

import "time"

// RoomStatus is the room lifecycle: active rooms accept mutations, finished
// rooms only serve their final state, archived rooms await removal.
type RoomStatus string

const (
	RoomActive   RoomStatus = "active"
	RoomFinished RoomStatus = "finished"
	RoomArchived RoomStatus = "archived"
)

// RoomState is the full snapshot broadcast after every successful mutation.
// Players keep their join order.
type RoomState struct {
	ID               string     `json:"id"`
	Code             string     `json:"code"`
	TemplateID       string     `json:"templateId"`
	Status           RoomStatus `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	StartedAt        *time.Time `json:"startedAt,omitempty"`
	FinishedAt       *time.Time `json:"finishedAt,omitempty"`
	HostConnected    bool       `json:"hostConnected"`
	TurnNumber       int        `json:"turnNumber"`
	CurrentPlayerID  string     `json:"currentPlayerId,omitempty"`
	LastDiceValue    int        `json:"lastDiceValue,omitempty"`
	LastSelectedCell int        `json:"lastSelectedCell,omitempty"`
	Players          []Player   `json:"players"`
	Screens          []string   `json:"screens"`
	Events           []Event    `json:"events"`
}
