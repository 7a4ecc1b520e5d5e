package hub

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const sendBufferSize = 16

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Client is one connected browser.
type Client struct {
	ID   string
	conn Connection
	send chan []byte
}

func newClient(conn Connection) *Client {
	return &Client{
		ID:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// Serve registers conn with the hub and starts its pumps. It returns once the
// client is registered; the pumps stop when the connection fails or the hub
// stops.
func (h *Hub) Serve(ctx context.Context, conn Connection) (*Client, bool) {
	c := newClient(conn)
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return nil, false
	}

	// The request context ends when the upgrade handler returns.
	ctx = context.WithoutCancel(ctx)
	go h.writePump(ctx, c)
	go h.readPump(ctx, c)
	return c, true
}

// readPump feeds messages from the connection into the session.
func (h *Hub) readPump(ctx context.Context, c *Client) {
	ctx, span := tracer.Start(ctx, "Hub.readPump", trace.WithAttributes(
		attribute.String("client.id", c.ID),
	))
	defer span.End()

	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "client connection error", "client.id", c.ID, "error", err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "Client connection error")
			}
			return
		}
		h.HandleMessage(ctx, c, msg)
	}
}

// writePump is the only writer of the connection.
func (h *Hub) writePump(ctx context.Context, c *Client) {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			slog.WarnContext(ctx, "error writing message to client", "client.id", c.ID, "error", err)
			break
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

// sendIgnored queues the answer to an ignored intent of c.
func (h *Hub) sendIgnored(c *Client, reason string) {
	select {
	case h.outbound <- outbound{target: c, reason: reason}:
	case <-h.done:
	}
}
