package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-kv/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-kv/internal/entity"
	"github.com/rocketscienceinc/tictactoe-kv/internal/repository"
	"github.com/rocketscienceinc/tictactoe-kv/internal/tictactoe"
)

type GameUseCase interface {
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	MakeMove(ctx context.Context, gameID string, move entity.Move) (*entity.Game, error)
	Subscribe(ctx context.Context, gameID string) (repository.Subscription, error)
}

type gameRepo interface {
	GetOrCreate(ctx context.Context, id string, initial *entity.Game) (*entity.Game, error)
	Update(ctx context.Context, id string, fn repository.UpdateFunc) error
}

type gameEvents interface {
	Publish(ctx context.Context, id string, game *entity.Game) error
	Subscribe(ctx context.Context, id string) (repository.Subscription, error)
}

type gameUseCase struct {
	logger      *slog.Logger
	gameRepo    gameRepo
	gameEvents  gameEvents
	resetOnDraw bool
}

// NewGameUseCase - resetOnDraw also clears a drawn board right away, as is always done for a win.
func NewGameUseCase(logger *slog.Logger, gameRepo gameRepo, gameEvents gameEvents, resetOnDraw bool) GameUseCase {
	return &gameUseCase{
		logger:      logger.With("component", "game-usecase"),
		gameRepo:    gameRepo,
		gameEvents:  gameEvents,
		resetOnDraw: resetOnDraw,
	}
}

// GetGame - returns the stored game, storing a fresh one first if there is none.
func (that *gameUseCase) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetOrCreate(ctx, gameID, tictactoe.Reset())
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// MakeMove - applies the move to the stored game. The returned game is the board right after
// the move even when a finished game was reset in the store. When the cell is taken the
// current game is returned together with the error.
func (that *gameUseCase) MakeMove(ctx context.Context, gameID string, move entity.Move) (*entity.Game, error) {
	log := that.logger.With("method", "MakeMove", "game", gameID)

	if err := move.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedRequest, err)
	}

	var result *entity.Game

	err := that.gameRepo.Update(ctx, gameID, func(current *entity.Game) (*entity.Game, error) {
		if current == nil || current.IsFinished() {
			current = tictactoe.Reset()
		}

		next, err := tictactoe.ApplyMove(current, move)
		result = next
		if err != nil {
			return nil, err
		}

		if that.shouldReset(next) {
			return tictactoe.Reset(), nil
		}

		return next, nil
	})

	if errors.Is(err, apperror.ErrCellOccupied) {
		log.Debug("move rejected", "row", move.Row, "col", move.Col, "mark", move.Mark)
		return result, fmt.Errorf("failed to make move: %w", err)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	if result.IsFinished() {
		log.Info("game finished", "winner", result.Winner)
	}

	// the store is already updated; a lost notification must not fail the move
	if err = that.gameEvents.Publish(ctx, gameID, result); err != nil {
		log.Error("failed to publish game", "error", err)
	}

	return result, nil
}

func (that *gameUseCase) Subscribe(ctx context.Context, gameID string) (repository.Subscription, error) {
	sub, err := that.gameEvents.Subscribe(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to game: %w", err)
	}

	return sub, nil
}

func (that *gameUseCase) shouldReset(game *entity.Game) bool {
	if game.Winner == entity.WinnerDraw {
		return that.resetOnDraw
	}

	return game.IsFinished()
}
