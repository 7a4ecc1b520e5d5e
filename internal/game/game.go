package game

import "errors"

// Errors returned when a play is rejected. The board is never modified.
var (
	ErrOutOfRange       = errors.New("cell index out of range")
	ErrCellOccupied     = errors.New("cell already occupied")
	ErrGameAlreadyWon   = errors.New("game already won")
	ErrUnreachableBoard = errors.New("board is not reachable by legal play")
)

// lines are scanned rows first, then columns, then the two diagonals.
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Restart returns the all-empty board.
func Restart() Board {
	return Board{}
}

// Play places the mark of the player to move at cellIndex and returns the
// resulting board.
func Play(board Board, cellIndex int) (Board, error) {
	if cellIndex < BorderMin || cellIndex > BorderMax {
		return board, ErrOutOfRange
	}
	if Winner(board) != None {
		return board, ErrGameAlreadyWon
	}
	if board[cellIndex] != None {
		return board, ErrCellOccupied
	}

	next := board
	next[cellIndex] = Turn(board)
	return next, nil
}

// Turn is X when both players have placed the same number of marks.
func Turn(board Board) PlayerMark {
	x, o := CountMarks(board)
	if x == o {
		return PlayerX
	}
	return PlayerO
}

// Winner returns the mark of the first complete line, or None.
func Winner(board Board) PlayerMark {
	for _, ln := range lines {
		a := board[ln[0]]
		if a != None && a == board[ln[1]] && a == board[ln[2]] {
			return a
		}
	}
	return None
}

// IsDraw checks if the board is full without a winner.
func IsDraw(board Board) bool {
	return Winner(board) == None && IsBoardFull(board)
}
