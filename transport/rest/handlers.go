package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-kv/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-kv/internal/entity"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	GameHandler(w http.ResponseWriter, r *http.Request)
}

type gameUseCase interface {
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	MakeMove(ctx context.Context, gameID string, move entity.Move) (*entity.Game, error)
}

type errorResponse struct {
	Error string `json:"error"`
	*entity.Game
}

type handlers struct {
	logger      *slog.Logger
	gameID      string
	gameUseCase gameUseCase
}

// NewHandlers - every request is served against the game stored under gameID.
func NewHandlers(logger *slog.Logger, gameID string, gameUseCase gameUseCase) Handlers {
	return &handlers{
		logger:      logger.With("component", "rest"),
		gameID:      gameID,
		gameUseCase: gameUseCase,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// GameHandler - GET returns the current game, POST plays a move. Other methods get 405 with no body.
func (that *handlers) GameHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		that.getGame(w, r)
	case http.MethodPost:
		that.makeMove(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "getGame")

	game, err := that.gameUseCase.GetGame(r.Context(), that.gameID)
	if err != nil {
		log.Error("failed to get game", "error", err)
		that.writeError(w, err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "makeMove")

	move, err := decodeMove(w, r)
	if err != nil {
		log.Debug("invalid move request", "error", err)
		that.writeError(w, err, nil)
		return
	}

	game, err := that.gameUseCase.MakeMove(r.Context(), that.gameID, move)
	if err != nil {
		if !errors.Is(err, apperror.ErrCellOccupied) {
			log.Error("failed to make move", "error", err)
		}

		that.writeError(w, err, game)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

// writeError - game, when not nil, is echoed next to the message so the client can resync.
func (that *handlers) writeError(w http.ResponseWriter, err error, game *entity.Game) {
	var (
		status   int
		message  string
		occupied *apperror.CellOccupiedError
	)

	switch {
	case errors.As(err, &occupied):
		status, message = http.StatusConflict, occupied.Error()
	case errors.Is(err, apperror.ErrMalformedRequest):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperror.ErrConcurrentUpdate):
		status, message = http.StatusConflict, apperror.ErrConcurrentUpdate.Error()
	case errors.Is(err, apperror.ErrStoreUnavailable):
		status, message = http.StatusInternalServerError, apperror.ErrStoreUnavailable.Error()
	default:
		status, message = http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}

	that.writeJSON(w, status, errorResponse{Error: message, Game: game})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
