package repository

import (
	"context"
	"ctchen222/Tic-Tac-Toe-History/internal/game"
	"ctchen222/Tic-Tac-Toe-History/internal/history"
	"encoding/json"
	"fmt"
)

// Logical keys under the storage namespace.
const (
	KeySquares = "squares"
	KeyHistory = "history"
)

// GameRepository defines the persisted state of the single game session.
// Load methods return ErrKeyNotFound when nothing was saved yet.
type GameRepository interface {
	LoadSquares(ctx context.Context) (game.Board, error)
	SaveSquares(ctx context.Context, board game.Board) error
	LoadHistory(ctx context.Context) ([]history.Record, error)
	SaveHistory(ctx context.Context, records []history.Record) error
}

type jsonGameRepository struct {
	store Store
}

// NewGameRepository creates a GameRepository that stores JSON values in store.
func NewGameRepository(store Store) GameRepository {
	return &jsonGameRepository{store: store}
}

func (r *jsonGameRepository) LoadSquares(ctx context.Context) (game.Board, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.LoadSquares")
	defer span.End()

	var board game.Board
	if err := r.loadJSON(ctx, KeySquares, &board); err != nil {
		return game.Board{}, err
	}
	return board, nil
}

func (r *jsonGameRepository) SaveSquares(ctx context.Context, board game.Board) error {
	ctx, span := tracer.Start(ctx, "GameRepository.SaveSquares")
	defer span.End()

	return r.saveJSON(ctx, KeySquares, board)
}

func (r *jsonGameRepository) LoadHistory(ctx context.Context) ([]history.Record, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.LoadHistory")
	defer span.End()

	var records []history.Record
	if err := r.loadJSON(ctx, KeyHistory, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *jsonGameRepository) SaveHistory(ctx context.Context, records []history.Record) error {
	ctx, span := tracer.Start(ctx, "GameRepository.SaveHistory")
	defer span.End()

	if records == nil {
		records = []history.Record{}
	}
	return r.saveJSON(ctx, KeyHistory, records)
}

func (r *jsonGameRepository) loadJSON(ctx context.Context, key string, v any) error {
	data, err := r.store.Load(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

func (r *jsonGameRepository) saveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return r.store.Save(ctx, key, data)
}
