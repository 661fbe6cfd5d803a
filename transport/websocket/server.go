package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-kv/internal/entity"
	"github.com/rocketscienceinc/tictactoe-kv/internal/repository"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var errSubscriptionClosed = errors.New("game subscription closed")

type gameUseCase interface {
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	Subscribe(ctx context.Context, gameID string) (repository.Subscription, error)
}

// Server streams the game to websocket clients: the current state on connect,
// then every state produced by a move.
type Server struct {
	logger      *slog.Logger
	gameID      string
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader
}

func New(logger *slog.Logger, gameID string, gameUseCase gameUseCase) *Server {
	return &Server{
		logger:      logger.With("component", "websocket"),
		gameID:      gameID,
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler - connections are closed when ctx is canceled.
func (that *Server) Handler(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		connCtx, cancel := context.WithCancel(r.Context())
		defer cancel()

		stop := context.AfterFunc(ctx, cancel)
		defer stop()

		that.serve(connCtx, w, r)
	})
}

func (that *Server) serve(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serve", "remote", r.RemoteAddr)

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	// subscribe before reading the current game so no move falls in between
	sub, err := that.gameUseCase.Subscribe(ctx, that.gameID)
	if err != nil {
		log.Error("failed to subscribe", "error", err)
		that.closeWith(conn, websocket.CloseInternalServerErr, "game feed unavailable")
		return
	}
	defer func() {
		if err = sub.Close(); err != nil {
			log.Error("failed to close subscription", "error", err)
		}
	}()

	game, err := that.gameUseCase.GetGame(ctx, that.gameID)
	if err != nil {
		log.Error("failed to get game", "error", err)
		that.closeWith(conn, websocket.CloseInternalServerErr, "game unavailable")
		return
	}

	if err = that.write(conn, game); err != nil {
		log.Error("failed to send game", "error", err)
		return
	}

	log.Info("WebSocket connection established")

	err = that.stream(ctx, conn, sub)
	switch {
	case err == nil:
		that.closeWith(conn, websocket.CloseGoingAway, "server shutting down")
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		log.Info("WebSocket connection closed by client")
	default:
		log.Error("WebSocket connection ended", "error", err)
	}
}

// stream - returns nil when ctx is done, the read error when the client goes away.
func (that *Server) stream(ctx context.Context, conn *websocket.Conn, sub repository.Subscription) error {
	readErr := make(chan error, 1)
	go func() {
		readErr <- that.readPump(conn)
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case game, ok := <-sub.Games():
			if !ok {
				return errSubscriptionClosed
			}

			if err := that.write(conn, game); err != nil {
				return fmt.Errorf("failed to send game: %w", err)
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("failed to ping: %w", err)
			}
		}
	}
}

// readPump - the feed is one way; reading only serves pongs and close frames.
func (that *Server) readPump(conn *websocket.Conn) error {
	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return err
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return err
		}
	}
}

func (that *Server) write(conn *websocket.Conn, game *entity.Game) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return conn.WriteJSON(game)
}

func (that *Server) closeWith(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		that.logger.Debug("failed to send close frame", "error", err)
	}
}
