// Package hub fans the session state out to every connected websocket client
// and feeds their intents back into the session.
package hub

import (
	"context"
	"ctchen222/Tic-Tac-Toe-History/internal/session"
	"ctchen222/Tic-Tac-Toe-History/pkg/proto"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hub")

const broadcastBufferSize = 64

// Session is the part of the game session the hub drives.
type Session interface {
	View() session.View
	SelectCell(ctx context.Context, index int) (session.View, error)
	Restart(ctx context.Context) session.View
	TravelTo(ctx context.Context, move int) (session.View, error)
}

// outbound is either a state broadcast or, when target is set, the answer
// to an ignored intent of target. Both share one channel so a reply never
// overtakes a newer state.
type outbound struct {
	target *Client
	reason string
	view   session.View
	data   []byte
}

// Hub manages all connected clients.
type Hub struct {
	session    Session
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	outbound   chan outbound
	done       chan struct{}

	// latest is the last broadcast state, sent to clients as they join and
	// used for replies to ignored intents.
	latest     []byte
	latestView session.View
}

// NewHub creates a new hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan outbound, broadcastBufferSize),
		done:       make(chan struct{}),
	}
}

// Attach sets the session client intents are applied to and queues its
// current state as the first broadcast. It must be called before Serve.
func (h *Hub) Attach(s Session) {
	h.session = s
	h.Broadcast(s.View())
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	slog.InfoContext(ctx, "hub started")

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			slog.InfoContext(ctx, "hub stopped")
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			if h.latest != nil {
				c.send <- h.latest
			}
			slog.InfoContext(ctx, "client connected", "client.id", c.ID, "clients.count", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				slog.InfoContext(ctx, "client disconnected", "client.id", c.ID, "clients.count", len(h.clients))
			}

		case m := <-h.outbound:
			if m.target == nil {
				h.latest, h.latestView = m.data, m.view
				for c := range h.clients {
					h.deliver(ctx, c, m.data)
				}
				continue
			}
			h.reply(ctx, m.target, m.reason)
		}
	}
}

// reply answers an ignored intent with the latest state, which is never older
// than anything c has already received.
func (h *Hub) reply(ctx context.Context, c *Client, reason string) {
	if _, ok := h.clients[c]; !ok || h.latest == nil {
		return
	}
	data, err := encodeState(h.latestView, reason)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling state", "error", err)
		return
	}
	h.deliver(ctx, c, data)
}

// deliver never blocks the hub; a client whose buffer is full is dropped.
func (h *Hub) deliver(ctx context.Context, c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.drop(c)
		slog.WarnContext(ctx, "dropping slow client", "client.id", c.ID)
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
}

// Broadcast queues view for every client. It is used as the session
// notifier.
func (h *Hub) Broadcast(view session.View) {
	ctx, span := tracer.Start(context.Background(), "Hub.Broadcast", trace.WithAttributes(
		attribute.Int("history.length", len(view.History)),
	))
	defer span.End()

	data, err := encodeState(view, "")
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling state", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling state")
		return
	}

	select {
	case h.outbound <- outbound{view: view, data: data}:
	case <-h.done:
	}
}

func encodeState(view session.View, reason string) ([]byte, error) {
	return json.Marshal(&proto.ServerToClientMessage{
		Type:    proto.TypeState,
		Squares: view.Squares,
		Status:  view.Status,
		History: view.History,
		Warning: view.Warning,
		Reason:  reason,
	})
}
