package session

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("session")

type sessionMetrics struct {
	movesPlayed     metric.Int64Counter
	intentsRejected metric.Int64Counter
	travels         metric.Int64Counter
	restarts        metric.Int64Counter
	persistFailures metric.Int64Counter
}

func newSessionMetrics() (*sessionMetrics, error) {
	var m sessionMetrics
	var err, e error

	m.movesPlayed, e = meter.Int64Counter("tictactoe.moves.played",
		metric.WithDescription("Cells successfully played"))
	err = errors.Join(err, e)
	m.intentsRejected, e = meter.Int64Counter("tictactoe.intents.rejected",
		metric.WithDescription("Intents ignored because the engine rejected them"))
	err = errors.Join(err, e)
	m.travels, e = meter.Int64Counter("tictactoe.history.travels",
		metric.WithDescription("Successful travels to a recorded move"))
	err = errors.Join(err, e)
	m.restarts, e = meter.Int64Counter("tictactoe.restarts",
		metric.WithDescription("Game restarts"))
	err = errors.Join(err, e)
	m.persistFailures, e = meter.Int64Counter("tictactoe.persistence.failures",
		metric.WithDescription("Failed writes of the game state"))
	err = errors.Join(err, e)

	return &m, err
}
