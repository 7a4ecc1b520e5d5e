package controller

import (
	"context"
	"ctchen222/Tic-Tac-Toe-History/internal/api/response"
	"ctchen222/Tic-Tac-Toe-History/internal/session"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Session is the game session the controller drives.
type Session interface {
	View() session.View
	SelectCell(ctx context.Context, index int) (session.View, error)
	Restart(ctx context.Context) session.View
	TravelTo(ctx context.Context, move int) (session.View, error)
}

// StateExtras is the payload of every game endpoint. Ignored names the reason
// an intent left the state unchanged.
type StateExtras struct {
	session.View
	Ignored string `json:"ignored,omitempty"`
}

// GameController handles the game HTTP requests.
type GameController struct {
	session Session
}

// NewGameController creates a new GameController.
func NewGameController(s Session) *GameController {
	return &GameController{
		session: s,
	}
}

// State returns the current board, status and history.
func (gc *GameController) State(c *gin.Context) {
	response.SuccessResponse(c, StateExtras{View: gc.session.View()})
}

// SelectCell plays the cell given in the path.
func (gc *GameController) SelectCell(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "cell index must be an integer")
		return
	}

	view, err := gc.session.SelectCell(c.Request.Context(), index)
	gc.respond(c, view, err)
}

// Restart clears the board and history.
func (gc *GameController) Restart(c *gin.Context) {
	response.SuccessResponse(c, StateExtras{View: gc.session.Restart(c.Request.Context())})
}

// TravelTo jumps to the history move given in the path.
func (gc *GameController) TravelTo(c *gin.Context) {
	move, err := strconv.Atoi(c.Param("move"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "history move must be an integer")
		return
	}

	view, err := gc.session.TravelTo(c.Request.Context(), move)
	gc.respond(c, view, err)
}

// respond answers ignored intents like successful ones so the page simply
// re-renders the unchanged state.
func (gc *GameController) respond(c *gin.Context, view session.View, err error) {
	if err == nil {
		response.SuccessResponse(c, StateExtras{View: view})
		return
	}
	if session.IsRejection(err) {
		response.SuccessResponse(c, StateExtras{View: view, Ignored: session.RejectionReason(err)})
		return
	}

	slog.ErrorContext(c.Request.Context(), "game intent failed", "path", c.FullPath(), "error", err)
	response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
}
