package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"
)

// Board boundaries
const (
	BoardSize = 9
	BorderMin = 0
	BorderMax = BoardSize - 1
)

var errInvalidMark = errors.New("invalid mark")

// MarshalJSON encodes an empty cell as null.
func (m PlayerMark) MarshalJSON() ([]byte, error) {
	if m == None {
		return []byte("null"), nil
	}
	return json.Marshal(string(m))
}

func (m *PlayerMark) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = None
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch PlayerMark(s) {
	case PlayerX, PlayerO:
		*m = PlayerMark(s)
	case None:
		*m = None
	default:
		return fmt.Errorf("%w: %q", errInvalidMark, s)
	}
	return nil
}

// Board is the 3x3 grid stored row-major, cells 0..8.
type Board [BoardSize]PlayerMark

// Equal compares two boards cell by cell.
func (b Board) Equal(other Board) bool {
	return b == other
}

// IsEmpty reports whether no cell has been played.
func (b Board) IsEmpty() bool {
	return b == Board{}
}

// Rows converts the board to a slice of three rows for rendering.
func (b Board) Rows() [][]PlayerMark {
	rows := make([][]PlayerMark, 3)
	for r := range [3]int{} {
		rows[r] = make([]PlayerMark, 3)
		copy(rows[r], b[r*3:r*3+3])
	}
	return rows
}

func (b Board) String() string {
	out := make([]byte, 0, BoardSize)
	for _, m := range b {
		if m == None {
			out = append(out, '_')
			continue
		}
		out = append(out, m[0])
	}
	return string(out)
}

// UnmarshalJSON requires exactly nine cells.
func (b *Board) UnmarshalJSON(data []byte) error {
	var cells []PlayerMark
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	if len(cells) != BoardSize {
		return fmt.Errorf("board must have %d cells, got %d", BoardSize, len(cells))
	}
	copy(b[:], cells)
	return nil
}

// CountMarks returns how many cells hold X and O.
func CountMarks(b Board) (x, o int) {
	for _, m := range b {
		switch m {
		case PlayerX:
			x++
		case PlayerO:
			o++
		}
	}
	return x, o
}

// IsBoardFull checks whether every cell holds a mark.
func IsBoardFull(b Board) bool {
	for _, m := range b {
		if m == None {
			return false
		}
	}
	return true
}

// ValidateReachable reports boards that alternating play from X could not
// produce by mark counts alone.
func ValidateReachable(b Board) error {
	x, o := CountMarks(b)
	if x != o && x != o+1 {
		return fmt.Errorf("%w: %d X against %d O", ErrUnreachableBoard, x, o)
	}
	return nil
}
