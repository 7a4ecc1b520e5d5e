package server

import (
	"ctchen222/Tic-Tac-Toe-History/internal/api/controller"
	"ctchen222/Tic-Tac-Toe-History/internal/api/response"
	"ctchen222/Tic-Tac-Toe-History/internal/hub"
	"ctchen222/Tic-Tac-Toe-History/internal/web"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	engine         *gin.Engine
	hub            *hub.Hub
	gameController *controller.GameController
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewServer wires the routes. An empty allowedOrigins list accepts every
// origin and installs no CORS middleware.
func NewServer(h *hub.Hub, gameController *controller.GameController, allowedOrigins []string) *Server {
	s := &Server{
		engine:         gin.New(),
		hub:            h,
		gameController: gameController,
		allowedOrigins: allowedOrigins,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.registerHandlers()
	return s
}

// Engine returns the HTTP handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHandlers() {
	s.engine.Use(gin.Recovery(), requestLogger())
	if len(s.allowedOrigins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = s.allowedOrigins
		config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
		s.engine.Use(cors.New(config))
	}

	s.engine.GET("/", s.handleIndex)
	s.engine.GET("/healthz", func(c *gin.Context) {
		response.SuccessResponse(c, gin.H{"status": "ok"})
	})
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api")
	{
		api.GET("/state", s.gameController.State)
		api.POST("/cells/:index", s.gameController.SelectCell)
		api.POST("/restart", s.gameController.Restart)
		api.POST("/history/:move", s.gameController.TravelTo)
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	page, err := web.IndexPage()
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// handleWebSocket's only responsibility is to upgrade the connection and
// hand it to the hub.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	client, ok := s.hub.Serve(ctx, conn)
	if !ok {
		span.SetStatus(codes.Error, "Hub is stopped")
		return
	}
	span.SetAttributes(attribute.String("client.id", client.ID))
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.allowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(s.allowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.DebugContext(c.Request.Context(), "http request",
			"http.method", c.Request.Method,
			"http.route", c.FullPath(),
			"http.status", c.Writer.Status(),
			"http.duration", time.Since(start),
		)
	}
}
