package proto

import (
	"ctchen222/Tic-Tac-Toe-History/internal/game"
	"ctchen222/Tic-Tac-Toe-History/internal/history"
)

// Client message types.
const (
	TypeSelect  = "select"
	TypeRestart = "restart"
	TypeTravel  = "travel"
)

// TypeState is the type of every state broadcast.
const TypeState = "state"

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type string `json:"type" validate:"required,oneof=select restart travel"`
	Cell *int   `json:"cell,omitempty" validate:"required_if=Type select"`
	Move *int   `json:"move,omitempty" validate:"required_if=Type travel"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type    string           `json:"type" validate:"required"`
	Squares game.Board       `json:"squares"`
	Status  game.Status      `json:"status"`
	History []history.Record `json:"history"`
	Warning string           `json:"warning,omitempty"`
	Reason  string           `json:"reason,omitempty"`
}
