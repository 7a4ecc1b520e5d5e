package repository

import (
	"context"
	"ctchen222/Tic-Tac-Toe-History/internal/game"
	"ctchen222/Tic-Tac-Toe-History/internal/history"
	"ctchen222/Tic-Tac-Toe-History/internal/repository/mocks"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGameRepositorySquares(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewGameRepository(store)

	_, err := repo.LoadSquares(ctx)
	require.ErrorIs(t, err, ErrKeyNotFound)

	board := game.Board{game.PlayerX, game.None, game.None, game.None, game.PlayerO}
	require.NoError(t, repo.SaveSquares(ctx, board))

	raw, err := store.Load(ctx, KeySquares)
	require.NoError(t, err)
	assert.JSONEq(t, `["X",null,null,null,"O",null,null,null,null]`, string(raw))

	got, err := repo.LoadSquares(ctx)
	require.NoError(t, err)
	assert.Equal(t, board, got)
}

func TestGameRepositoryHistory(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewGameRepository(store)

	require.NoError(t, repo.SaveHistory(ctx, nil))
	raw, err := store.Load(ctx, KeyHistory)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	x := game.Board{}
	x[4] = game.PlayerX
	records := []history.Record{
		{Move: 0, Current: false},
		{Move: 1, Squares: x, Current: true},
	}
	require.NoError(t, repo.SaveHistory(ctx, records))

	raw, err = store.Load(ctx, KeyHistory)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"move":0,"squares":[null,null,null,null,null,null,null,null,null],"current":false},
		{"move":1,"squares":[null,null,null,null,"X",null,null,null,null],"current":true}
	]`, string(raw))

	got, err := repo.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestGameRepositoryCorruptValue(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewGameRepository(store)

	require.NoError(t, store.Save(ctx, KeySquares, []byte(`["X"]`)))
	_, err := repo.LoadSquares(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Save(ctx, KeyHistory, []byte(`{`)))
	_, err = repo.LoadHistory(ctx)
	require.Error(t, err)
}

func TestGameRepositoryPropagatesStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	repo := NewGameRepository(store)
	ctx := context.Background()
	boom := errors.New("quota exceeded")

	store.EXPECT().Save(gomock.Any(), KeySquares, gomock.Any()).Return(boom)
	store.EXPECT().Load(gomock.Any(), KeyHistory).Return(nil, boom)

	require.ErrorIs(t, repo.SaveSquares(ctx, game.Restart()), boom)
	_, err := repo.LoadHistory(ctx)
	require.ErrorIs(t, err, boom)
}
