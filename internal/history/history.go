// Package history keeps the log of board snapshots that backs time travel.
//
// A Tracker is an immutable value: Record and Travel return a new Tracker and
// leave the receiver untouched.
package history

import (
	"ctchen222/Tic-Tac-Toe-History/internal/game"
	"errors"
	"fmt"
)

var (
	ErrMoveNotFound   = errors.New("history move not found")
	ErrInvalidHistory = errors.New("invalid history")
)

// Record is one snapshot in the history list.
type Record struct {
	Move    int        `json:"move"`
	Squares game.Board `json:"squares"`
	Current bool       `json:"current"`
}

// Tracker is an ordered list of records with dense move numbers starting at
// zero. A non-empty tracker has exactly one current record.
type Tracker struct {
	records []Record
}

// New returns a tracker seeded with the empty board as move 0.
func New() Tracker {
	return Tracker{}.Record(game.Restart())
}

// FromRecords builds a tracker from persisted records after validating them.
func FromRecords(records []Record) (Tracker, error) {
	t := Tracker{records: append([]Record(nil), records...)}
	if err := t.Validate(); err != nil {
		return Tracker{}, err
	}
	return t, nil
}

// Records returns a copy of the records in move order.
func (t Tracker) Records() []Record {
	return append([]Record(nil), t.records...)
}

func (t Tracker) Len() int {
	return len(t.records)
}

// Current returns the record flagged as current.
func (t Tracker) Current() (Record, bool) {
	if i := t.currentIndex(); i >= 0 {
		return t.records[i], true
	}
	return Record{}, false
}

// Record registers board as the live snapshot.
//
// A board already present in the tracker only moves the current flag, so
// recording the same board twice is a no-op. A new board truncates every
// record after the current one and is appended as the new current record.
func (t Tracker) Record(board game.Board) Tracker {
	if len(t.records) == 0 {
		seeded := Tracker{records: []Record{{Move: 0, Squares: game.Restart(), Current: true}}}
		if board.IsEmpty() {
			return seeded
		}
		t = seeded
	}

	for _, r := range t.records {
		if r.Squares.Equal(board) {
			return t.markCurrent(r.Move)
		}
	}

	end := t.currentIndex() + 1
	if end <= 0 {
		end = len(t.records)
	}
	next := make([]Record, end, end+1)
	copy(next, t.records[:end])
	for i := range next {
		next[i].Current = false
	}
	next = append(next, Record{Move: end, Squares: board, Current: true})
	return Tracker{records: next}
}

// Travel makes the record for move current and returns its snapshot.
func (t Tracker) Travel(move int) (Tracker, game.Board, error) {
	for _, r := range t.records {
		if r.Move == move {
			return t.markCurrent(move), r.Squares, nil
		}
	}
	return t, game.Board{}, fmt.Errorf("%w: %d", ErrMoveNotFound, move)
}

// Validate checks dense move numbering starting from the empty board,
// distinct snapshots and the single current flag.
func (t Tracker) Validate() error {
	if len(t.records) > 0 && !t.records[0].Squares.IsEmpty() {
		return fmt.Errorf("%w: move 0 is not the empty board", ErrInvalidHistory)
	}

	current := 0
	seen := make(map[game.Board]int, len(t.records))
	for i, r := range t.records {
		if r.Move != i {
			return fmt.Errorf("%w: record %d has move %d", ErrInvalidHistory, i, r.Move)
		}
		if err := game.ValidateReachable(r.Squares); err != nil {
			return fmt.Errorf("%w: move %d: %v", ErrInvalidHistory, r.Move, err)
		}
		if prev, ok := seen[r.Squares]; ok {
			return fmt.Errorf("%w: moves %d and %d hold the same board", ErrInvalidHistory, prev, r.Move)
		}
		seen[r.Squares] = r.Move
		if r.Current {
			current++
		}
	}
	if len(t.records) > 0 && current != 1 {
		return fmt.Errorf("%w: %d current records", ErrInvalidHistory, current)
	}
	return nil
}

func (t Tracker) markCurrent(move int) Tracker {
	next := make([]Record, len(t.records))
	for i, r := range t.records {
		r.Current = r.Move == move
		next[i] = r
	}
	return Tracker{records: next}
}

func (t Tracker) currentIndex() int {
	for i, r := range t.records {
		if r.Current {
			return i
		}
	}
	return -1
}
