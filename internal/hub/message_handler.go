package hub

import (
	"context"
	"ctchen222/Tic-Tac-Toe-History/internal/session"
	"ctchen222/Tic-Tac-Toe-History/internal/validator"
	"ctchen222/Tic-Tac-Toe-History/pkg/proto"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandleMessage applies one client message to the session. Successful
// intents reach every client through the session notifier; an ignored intent
// is answered to the sender alone with the latest state and the reason.
func (h *Hub) HandleMessage(ctx context.Context, c *Client, raw []byte) {
	ctx, span := tracer.Start(ctx, "Hub.HandleMessage", trace.WithAttributes(
		attribute.String("client.id", c.ID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(raw, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "client.id", c.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		return
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from client", "client.id", c.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	var err error
	switch message.Type {
	case proto.TypeSelect:
		_, err = h.session.SelectCell(ctx, *message.Cell)
	case proto.TypeTravel:
		_, err = h.session.TravelTo(ctx, *message.Move)
	case proto.TypeRestart:
		h.session.Restart(ctx)
	}
	if err == nil {
		return
	}

	reason := session.RejectionReason(err)
	span.SetAttributes(attribute.String("intent.ignored", reason))
	h.sendIgnored(c, reason)
}
