package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-kv/internal/config"
	"github.com/rocketscienceinc/tictactoe-kv/internal/repository"
	"github.com/rocketscienceinc/tictactoe-kv/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-kv/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-kv/transport/rest"
	"github.com/rocketscienceinc/tictactoe-kv/transport/websocket"
)

var (
	ErrAddrNotFound = errors.New("redis address string is empty")
	ErrNoGameID     = errors.New("game id is empty")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	if conf.Redis.Host == "" || conf.Redis.Port == "" {
		return ErrAddrNotFound
	}

	if conf.Game.ID == "" {
		return ErrNoGameID
	}

	redisStorage, err := storage.New(ctx, conf.Redis)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gameRepo := repository.NewGameRepository(redisStorage, conf.Game.MaxRetries)
	gameEvents := repository.NewGameEvents(logger, redisStorage)
	gameUseCase := usecase.NewGameUseCase(logger, gameRepo, gameEvents, conf.Game.ResetOnDraw)

	wsServer := websocket.New(logger, conf.Game.ID, gameUseCase)
	router := rest.NewRouter(
		rest.NewHandlers(logger, conf.Game.ID, gameUseCase),
		map[string]http.Handler{"/ws": wsServer.Handler(ctx)},
	)

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "game", conf.Game.ID)

	if err = rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
