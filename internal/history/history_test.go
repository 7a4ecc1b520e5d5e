package history

import (
	"ctchen222/Tic-Tac-Toe-History/internal/game"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playAll plays cells in order from the empty board and records every board.
func playAll(t *testing.T, tr Tracker, cells ...int) (Tracker, game.Board) {
	t.Helper()
	board := game.Restart()
	if cur, ok := tr.Current(); ok {
		board = cur.Squares
	}
	for _, c := range cells {
		next, err := game.Play(board, c)
		require.NoError(t, err, "play %d", c)
		board = next
		tr = tr.Record(board)
	}
	return tr, board
}

func currentMove(t *testing.T, tr Tracker) int {
	t.Helper()
	cur, ok := tr.Current()
	require.True(t, ok, "tracker has no current record")
	return cur.Move
}

func TestNewSeedsEmptyBoard(t *testing.T) {
	tr := New()
	records := tr.Records()
	require.Len(t, records, 1)
	assert.Equal(t, Record{Move: 0, Squares: game.Board{}, Current: true}, records[0])
}

func TestRecordOnEmptyTrackerSeeds(t *testing.T) {
	tr := Tracker{}.Record(game.Restart())
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, 0, currentMove(t, tr))

	b, err := game.Play(game.Restart(), 4)
	require.NoError(t, err)
	tr = Tracker{}.Record(b)
	require.Equal(t, 2, tr.Len())
	assert.True(t, tr.Records()[0].Squares.IsEmpty())
	assert.Equal(t, b, tr.Records()[1].Squares)
	assert.Equal(t, 1, currentMove(t, tr))
}

func TestRecordAppendsDenseMoves(t *testing.T) {
	tr, board := playAll(t, New(), 4, 0, 8)
	records := tr.Records()
	require.Len(t, records, 4)
	for i, r := range records {
		assert.Equal(t, i, r.Move)
		assert.Equal(t, i == 3, r.Current)
	}
	assert.Equal(t, board, records[3].Squares)
	require.NoError(t, tr.Validate())
}

func TestRecordIsIdempotent(t *testing.T) {
	tr, board := playAll(t, New(), 4)
	once := tr.Record(board)
	twice := once.Record(board)
	assert.Equal(t, once.Records(), twice.Records())
	assert.Equal(t, 2, twice.Len())
}

func TestRecordExistingBoardMovesCurrentOnly(t *testing.T) {
	tr, _ := playAll(t, New(), 4, 0, 8)
	tr = tr.Record(game.Restart())
	assert.Equal(t, 4, tr.Len(), "existing snapshot must not be appended again")
	assert.Equal(t, 0, currentMove(t, tr))
}

func TestBranchTruncation(t *testing.T) {
	tr, _ := playAll(t, New(), 4, 0, 8)
	require.Equal(t, 4, tr.Len())

	tr, m1, err := tr.Travel(1)
	require.NoError(t, err)
	assert.Equal(t, 4, tr.Len(), "travel must not drop future records")

	branch, err := game.Play(m1, 2)
	require.NoError(t, err)
	tr = tr.Record(branch)

	records := tr.Records()
	require.Len(t, records, 3)
	assert.Equal(t, 2, records[2].Move)
	assert.Equal(t, branch, records[2].Squares)
	assert.True(t, records[2].Current)
	assert.False(t, records[0].Current)
	assert.False(t, records[1].Current)
	require.NoError(t, tr.Validate())
}

func TestTravel(t *testing.T) {
	tr, _ := playAll(t, New(), 4, 0, 8)

	tests := []struct {
		name    string
		move    int
		wantErr error
	}{
		{name: "game start", move: 0},
		{name: "middle move", move: 2},
		{name: "latest move", move: 3},
		{name: "unknown move", move: 7, wantErr: ErrMoveNotFound},
		{name: "negative move", move: -1, wantErr: ErrMoveNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, board, err := tr.Travel(tt.move)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tr.Records(), next.Records())
				return
			}
			require.NoError(t, err)
			cur, ok := next.Current()
			require.True(t, ok)
			assert.Equal(t, tt.move, cur.Move)
			assert.Equal(t, cur.Squares, board)
			for _, r := range next.Records() {
				assert.Equal(t, r.Move == tt.move, r.Current)
			}
		})
	}
}

func TestTravelToStartRestoresEmptyBoard(t *testing.T) {
	tr, _ := playAll(t, New(), 0, 1, 2, 3)
	next, board, err := tr.Travel(0)
	require.NoError(t, err)
	assert.True(t, board.IsEmpty())
	assert.Equal(t, 0, currentMove(t, next))
	assert.Equal(t, game.Status{Kind: game.StatusNextTurn, Mark: game.PlayerX}, game.StatusOf(board))
}

func TestTravelLeavesReceiverUntouched(t *testing.T) {
	tr, _ := playAll(t, New(), 4, 0)
	before := tr.Records()
	_, _, err := tr.Travel(0)
	require.NoError(t, err)
	assert.Equal(t, before, tr.Records())
}

// The current snapshot always matches the live board through any mix of
// play, travel and branch.
func TestCurrentMatchesLiveBoard(t *testing.T) {
	type step struct {
		play   int
		travel int
		isPlay bool
	}
	steps := []step{
		{isPlay: true, play: 4},
		{isPlay: true, play: 0},
		{isPlay: true, play: 8},
		{travel: 1},
		{isPlay: true, play: 0},
		{travel: 0},
		{isPlay: true, play: 2},
		{isPlay: true, play: 6},
		{travel: 1},
		{travel: 2},
		{isPlay: true, play: 4},
	}

	tr := New()
	live := game.Restart()
	for i, s := range steps {
		if s.isPlay {
			next, err := game.Play(live, s.play)
			if err != nil {
				continue
			}
			live = next
			tr = tr.Record(live)
		} else {
			next, board, err := tr.Travel(s.travel)
			if err != nil {
				continue
			}
			tr, live = next, board
		}
		cur, ok := tr.Current()
		require.True(t, ok, "step %d", i)
		assert.Equal(t, live, cur.Squares, "step %d", i)
		require.NoError(t, tr.Validate(), "step %d", i)
	}
}

func TestFromRecords(t *testing.T) {
	x := game.Board{game.PlayerX}

	tests := []struct {
		name    string
		records []Record
		wantErr bool
	}{
		{name: "empty", records: nil},
		{
			name: "valid",
			records: []Record{
				{Move: 0, Current: false},
				{Move: 1, Squares: x, Current: true},
			},
		},
		{
			name: "gap in moves",
			records: []Record{
				{Move: 0, Current: false},
				{Move: 2, Squares: x, Current: true},
			},
			wantErr: true,
		},
		{
			name: "no current",
			records: []Record{
				{Move: 0},
				{Move: 1, Squares: x},
			},
			wantErr: true,
		},
		{
			name:    "move 0 not empty",
			records: []Record{{Move: 0, Squares: x, Current: true}},
			wantErr: true,
		},
		{
			name: "duplicate snapshot",
			records: []Record{
				{Move: 0},
				{Move: 1, Squares: x},
				{Move: 2, Squares: x, Current: true},
			},
			wantErr: true,
		},
		{
			name: "two current",
			records: []Record{
				{Move: 0, Current: true},
				{Move: 1, Squares: x, Current: true},
			},
			wantErr: true,
		},
		{
			name: "unreachable snapshot",
			records: []Record{
				{Move: 0, Squares: game.Board{game.PlayerO}, Current: true},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := FromRecords(tt.records)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidHistory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.records), tr.Len())
			if tr.Len() > 0 {
				_, board, err := tr.Travel(0)
				require.NoError(t, err)
				assert.True(t, board.IsEmpty(), "move 0 restores the empty board")
			}
		})
	}
}
