package game

import (
	"encoding/json"
	"fmt"
)

type StatusKind string

const (
	StatusNextTurn StatusKind = "next_turn"
	StatusWon      StatusKind = "won"
	StatusDraw     StatusKind = "draw"
)

// Status classifies a board. Mark is the winner for StatusWon, the player to
// move for StatusNextTurn and None for StatusDraw.
type Status struct {
	Kind StatusKind
	Mark PlayerMark
}

// StatusOf derives the status of a board.
func StatusOf(board Board) Status {
	if w := Winner(board); w != None {
		return Status{Kind: StatusWon, Mark: w}
	}
	if IsDraw(board) {
		return Status{Kind: StatusDraw}
	}
	return Status{Kind: StatusNextTurn, Mark: Turn(board)}
}

// IsOver reports whether no further play is possible.
func (s Status) IsOver() bool {
	return s.Kind == StatusWon || s.Kind == StatusDraw
}

func (s Status) String() string {
	switch s.Kind {
	case StatusWon:
		return fmt.Sprintf("Winner: %s", s.Mark)
	case StatusDraw:
		return "Scratch: Cat's game"
	default:
		return fmt.Sprintf("Next player: %s", s.Mark)
	}
}

type statusJSON struct {
	Kind StatusKind `json:"kind"`
	Mark PlayerMark `json:"mark"`
	Text string     `json:"text"`
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(statusJSON{Kind: s.Kind, Mark: s.Mark, Text: s.String()})
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw statusJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Kind, s.Mark = raw.Kind, raw.Mark
	return nil
}
