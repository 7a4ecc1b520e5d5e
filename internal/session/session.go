// Package session owns the single live game: the current board, its history
// and the repository they are persisted to.
package session

import (
	"context"
	"ctchen222/Tic-Tac-Toe-History/internal/game"
	"ctchen222/Tic-Tac-Toe-History/internal/history"
	"ctchen222/Tic-Tac-Toe-History/internal/repository"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("session")

// PersistWarning is reported in View.Warning while the latest state could
// not be written to the store.
const PersistWarning = "Game progress could not be saved and may be lost on reload."

// View is everything the presentation layer renders.
type View struct {
	Squares game.Board       `json:"squares"`
	Status  game.Status      `json:"status"`
	History []history.Record `json:"history"`
	Warning string           `json:"warning,omitempty"`
}

// Notifier receives the new view after every state change. It is called
// with the session lock held and must not call back into the session.
type Notifier func(View)

type Option func(*Session)

// WithNotifier registers n to be told about state changes.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		s.notify = n
	}
}

// Session applies user intents one at a time.
type Session struct {
	mu      sync.Mutex
	board   game.Board
	tracker history.Tracker
	warning string

	repo    repository.GameRepository
	notify  Notifier
	metrics *sessionMetrics
}

// New creates the session and restores the last saved game from repo.
// Missing or corrupt saved state starts a fresh game.
func New(ctx context.Context, repo repository.GameRepository, opts ...Option) (*Session, error) {
	ctx, span := tracer.Start(ctx, "Session.New")
	defer span.End()

	m, err := newSessionMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to create session metrics: %w", err)
	}

	s := &Session{repo: repo, metrics: m, notify: func(View) {}}
	for _, opt := range opts {
		opt(s)
	}

	if !s.restore(ctx) {
		s.persistLocked(ctx)
	}
	span.SetAttributes(
		attribute.Int("history.length", s.tracker.Len()),
		attribute.String("board", s.board.String()),
	)
	return s, nil
}

// restore loads saved state and reports whether it was complete and valid.
func (s *Session) restore(ctx context.Context) bool {
	s.board = game.Restart()
	s.tracker = history.New()

	board, squaresErr := s.repo.LoadSquares(ctx)
	records, historyErr := s.repo.LoadHistory(ctx)

	squaresFound := squaresErr == nil
	historyFound := historyErr == nil
	for _, err := range []error{squaresErr, historyErr} {
		if err != nil && !errors.Is(err, repository.ErrKeyNotFound) {
			slog.WarnContext(ctx, "could not load saved game, starting fresh", "error", err)
			return false
		}
	}
	if !squaresFound && !historyFound {
		slog.InfoContext(ctx, "no saved game found, starting fresh")
		return false
	}

	if squaresFound {
		if err := game.ValidateReachable(board); err != nil {
			slog.WarnContext(ctx, "saved squares are invalid, starting fresh", "error", err)
			return false
		}
	}

	if !historyFound {
		s.board = board
		s.tracker = history.Tracker{}.Record(board)
		slog.InfoContext(ctx, "restored saved squares without history", "board", board.String())
		return false
	}

	tracker, err := history.FromRecords(records)
	if err != nil {
		slog.WarnContext(ctx, "saved history is invalid, starting fresh", "error", err)
		return false
	}
	cur, ok := tracker.Current()
	if !ok {
		if squaresFound {
			s.board = board
			s.tracker = tracker.Record(board)
		}
		return false
	}
	if !squaresFound {
		board = cur.Squares
	} else if !cur.Squares.Equal(board) {
		slog.WarnContext(ctx, "saved history does not match saved squares, starting fresh",
			"board", board.String(), "history.move", cur.Move)
		return false
	}

	s.board = board
	s.tracker = tracker
	slog.InfoContext(ctx, "restored saved game", "board", board.String(), "history.length", tracker.Len())
	return squaresFound
}

// View returns the current state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// SelectCell plays the cell for the player to move. A rejected play leaves
// the state untouched and returns the unchanged view with the game error.
func (s *Session) SelectCell(ctx context.Context, index int) (View, error) {
	ctx, span := tracer.Start(ctx, "Session.SelectCell", trace.WithAttributes(
		attribute.Int("cell.index", index),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := game.Play(s.board, index)
	if err != nil {
		s.reject(ctx, span, "select", err)
		return s.viewLocked(), fmt.Errorf("select cell %d: %w", index, err)
	}

	mark := next[index]
	s.board = next
	s.tracker = s.tracker.Record(next)
	s.metrics.movesPlayed.Add(ctx, 1, metric.WithAttributes(attribute.String("mark", string(mark))))
	slog.DebugContext(ctx, "cell played", "cell.index", index, "mark", mark, "board", next.String())
	if status := game.StatusOf(next); status.IsOver() {
		span.SetAttributes(attribute.String("game.status", string(status.Kind)))
		slog.InfoContext(ctx, "game over", "status", status.String())
	}

	return s.commitLocked(ctx), nil
}

// Restart clears the board and the history.
func (s *Session) Restart(ctx context.Context) View {
	ctx, span := tracer.Start(ctx, "Session.Restart")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.board = game.Restart()
	s.tracker = history.New()
	s.metrics.restarts.Add(ctx, 1)
	slog.InfoContext(ctx, "game restarted")

	return s.commitLocked(ctx)
}

// TravelTo restores the snapshot recorded for move. Travel never adds a
// history record; the future records stay until a new cell is played.
func (s *Session) TravelTo(ctx context.Context, move int) (View, error) {
	ctx, span := tracer.Start(ctx, "Session.TravelTo", trace.WithAttributes(
		attribute.Int("history.move", move),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	tracker, board, err := s.tracker.Travel(move)
	if err != nil {
		s.reject(ctx, span, "travel", err)
		return s.viewLocked(), err
	}

	s.tracker = tracker
	s.board = board
	s.metrics.travels.Add(ctx, 1)
	slog.DebugContext(ctx, "traveled in history", "history.move", move, "board", board.String())

	return s.commitLocked(ctx), nil
}

func (s *Session) reject(ctx context.Context, span trace.Span, intent string, err error) {
	span.SetAttributes(attribute.Bool("intent.accepted", false))
	s.metrics.intentsRejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("intent", intent),
		attribute.String("reason", RejectionReason(err)),
	))
	slog.DebugContext(ctx, "intent ignored", "intent", intent, "reason", RejectionReason(err))
}

// commitLocked persists the state and notifies listeners.
func (s *Session) commitLocked(ctx context.Context) View {
	s.persistLocked(ctx)
	view := s.viewLocked()
	s.notify(view)
	return view
}

// persistLocked saves both keys. Failures are kept as a warning; the
// in-memory game carries on.
func (s *Session) persistLocked(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "Session.persist")
	defer span.End()

	err := errors.Join(
		s.repo.SaveSquares(ctx, s.board),
		s.repo.SaveHistory(ctx, s.tracker.Records()),
	)
	if err != nil {
		s.warning = PersistWarning
		s.metrics.persistFailures.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist game state")
		slog.WarnContext(ctx, "failed to persist game state", "error", err)
		return
	}
	s.warning = ""
}

func (s *Session) viewLocked() View {
	return View{
		Squares: s.board,
		Status:  game.StatusOf(s.board),
		History: s.tracker.Records(),
		Warning: s.warning,
	}
}

// RejectionReason names the reason an intent was ignored.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, game.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, game.ErrCellOccupied):
		return "cell_occupied"
	case errors.Is(err, game.ErrGameAlreadyWon):
		return "game_already_won"
	case errors.Is(err, history.ErrMoveNotFound):
		return "move_not_found"
	default:
		return "unknown"
	}
}

// IsRejection reports whether err is an ignored intent rather than a failure.
func IsRejection(err error) bool {
	return RejectionReason(err) != "unknown"
}
