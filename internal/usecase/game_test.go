package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-kv/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-kv/internal/entity"
	"github.com/rocketscienceinc/tictactoe-kv/internal/repository"
	mockedUseCase "github.com/rocketscienceinc/tictactoe-kv/mocks/usecase"
)

const gameID = "game"

var (
	errRedisDown = errors.New("redis down")
	discard      = slog.New(slog.NewTextHandler(io.Discard, nil))
)

type stubSubscription struct {
	games chan *entity.Game
}

func (that *stubSubscription) Games() <-chan *entity.Game { return that.games }
func (that *stubSubscription) Close() error { return nil }

type fixture struct {
	repo   *mockedUseCase.MockgameRepo
	events *mockedUseCase.MockgameEvents

	// stored is what the last successful Update handed back to the repository.
	stored *entity.Game
}

func newUseCase(t *testing.T, resetOnDraw bool) (GameUseCase, *fixture) {
	t.Helper()

	f := &fixture{
		repo:   mockedUseCase.NewMockgameRepo(t),
		events: mockedUseCase.NewMockgameEvents(t),
	}

	return NewGameUseCase(discard, f.repo, f.events, resetOnDraw), f
}

// expectUpdate runs the update function against current, as the repository
// does inside its transaction.
func (that *fixture) expectUpdate(ctx context.Context, current *entity.Game) {
	that.repo.EXPECT().Update(ctx, gameID, mock.Anything).
		RunAndReturn(func(_ context.Context, _ string, fn repository.UpdateFunc) error {
			next, err := fn(current)
			if err != nil {
				return err
			}

			that.stored = next

			return nil
		}).Once()
}

func board(rows ...[3]entity.Mark) *entity.Game {
	game := entity.NewGame()
	for row, marks := range rows {
		for col, mark := range marks {
			if mark != "" {
				game.Board[row][col] = entity.NewCell(mark)
			}
		}
	}

	return game
}

func TestGameUseCase_GetGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the stored game, creating the initial one if absent", func(t *testing.T) {
		// Given: a repository that returns the stored game
		useCase, f := newUseCase(t, true)
		stored := board([3]entity.Mark{entity.MarkX})
		f.repo.EXPECT().GetOrCreate(ctx, gameID, entity.NewGame()).Return(stored, nil).Once()

		// When: GetGame is called
		game, err := useCase.GetGame(ctx, gameID)

		// Then: the stored game is returned
		require.NoError(t, err)
		assert.Equal(t, stored, game)
	})

	t.Run("Returns error when the store fails", func(t *testing.T) {
		useCase, f := newUseCase(t, true)
		f.repo.EXPECT().GetOrCreate(ctx, gameID, mock.Anything).Return(nil, errRedisDown).Once()

		game, err := useCase.GetGame(ctx, gameID)

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
	})
}

func TestGameUseCase_MakeMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores and publishes the game after a regular move", func(t *testing.T) {
		// Given: an empty stored game
		useCase, f := newUseCase(t, true)
		f.expectUpdate(ctx, entity.NewGame())

		expected := board([3]entity.Mark{}, [3]entity.Mark{"", entity.MarkX})
		f.events.EXPECT().Publish(ctx, gameID, expected).Return(nil).Once()

		// When: x plays the center
		game, err := useCase.MakeMove(ctx, gameID, entity.Move{Row: 1, Col: 1, Mark: entity.MarkX})

		// Then: the new game is returned and stored
		require.NoError(t, err)
		assert.Equal(t, expected, game)
		assert.Equal(t, expected, f.stored)
	})

	t.Run("Plays on the initial board when nothing is stored", func(t *testing.T) {
		useCase, f := newUseCase(t, true)
		f.expectUpdate(ctx, nil)
		f.events.EXPECT().Publish(ctx, gameID, mock.Anything).Return(nil).Once()

		game, err := useCase.MakeMove(ctx, gameID, entity.Move{Row: 0, Col: 0, Mark: entity.MarkO})

		require.NoError(t, err)
		assert.True(t, game.Board[0][0].Holds(entity.MarkO))
		assert.Equal(t, game, f.stored)
	})

	t.Run("Returns the winning board and stores a reset game", func(t *testing.T) {
		// Given: x needs one more cell on the top row
		useCase, f := newUseCase(t, true)
		f.expectUpdate(ctx, board([3]entity.Mark{entity.MarkX, entity.MarkX}))
		f.events.EXPECT().Publish(ctx, gameID, mock.Anything).Return(nil).Once()

		// When: x completes the row
		game, err := useCase.MakeMove(ctx, gameID, entity.Move{Row: 0, Col: 2, Mark: entity.MarkX})

		// Then: the caller sees the win, the store holds a fresh game
		require.NoError(t, err)
		assert.Equal(t, entity.WinnerOf(entity.MarkX), game.Winner)
		assert.True(t, game.Board[0][2].Holds(entity.MarkX))
		assert.Equal(t, entity.NewGame(), f.stored)
	})

	t.Run("Resets a draw when configured to", func(t *testing.T) {
		useCase, f := newUseCase(t, true)
		f.expectUpdate(ctx, board(
			[3]entity.Mark{entity.MarkX, entity.MarkO, entity.MarkX},
			[3]entity.Mark{entity.MarkX, entity.MarkO, entity.MarkO},
			[3]entity.Mark{entity.MarkO, entity.MarkX},
		))
		f.events.EXPECT().Publish(ctx, gameID, mock.Anything).Return(nil).Once()

		game, err := useCase.MakeMove(ctx, gameID, entity.Move{Row: 2, Col: 2, Mark: entity.MarkX})

		require.NoError(t, err)
		assert.Equal(t, entity.WinnerDraw, game.Winner)
		assert.Equal(t, entity.NewGame(), f.stored)
	})

	t.Run("Keeps a draw when reset on draw is off, and starts over on the next move", func(t *testing.T) {
		// Given: a game one move from a draw
		useCase, f := newUseCase(t, false)
		almostFull := board(
			[3]entity.Mark{entity.MarkX, entity.MarkO, entity.MarkX},
			[3]entity.Mark{entity.MarkX, entity.MarkO, entity.MarkO},
			[3]entity.Mark{entity.MarkO, entity.MarkX},
		)
		f.expectUpdate(ctx, almostFull)
		f.events.EXPECT().Publish(ctx, gameID, mock.Anything).Return(nil).Twice()

		// When: the last cell is filled
		drawn, err := useCase.MakeMove(ctx, gameID, entity.Move{Row: 2, Col: 2, Mark: entity.MarkX})

		// Then: the drawn board is stored as is
		require.NoError(t, err)
		assert.Equal(t, drawn, f.stored)

		// When: someone plays on the drawn game
		f.expectUpdate(ctx, drawn)
		game, err := useCase.MakeMove(ctx, gameID, entity.Move{Row: 0, Col: 0, Mark: entity.MarkO})

		// Then: the move lands on a fresh board
		require.NoError(t, err)
		assert.Equal(t, board([3]entity.Mark{entity.MarkO}), game)
	})

	t.Run("Returns the current game with CellOccupiedError", func(t *testing.T) {
		// Given: a game where the center is taken
		useCase, f := newUseCase(t, true)
		current := board([3]entity.Mark{}, [3]entity.Mark{"", entity.MarkO})
		f.expectUpdate(ctx, current)

		// When: x plays the center
		game, err := useCase.MakeMove(ctx, gameID, entity.Move{Row: 1, Col: 1, Mark: entity.MarkX})

		// Then: the error names the cell, nothing is stored or published
		var occupied *apperror.CellOccupiedError
		require.ErrorAs(t, err, &occupied)
		assert.Equal(t, current, game)
		assert.Nil(t, f.stored)
	})

	t.Run("Rejects a move outside the board before touching the store", func(t *testing.T) {
		useCase, _ := newUseCase(t, true)

		game, err := useCase.MakeMove(ctx, gameID, entity.Move{Row: 3, Col: 0, Mark: entity.MarkX})

		require.ErrorIs(t, err, apperror.ErrMalformedRequest)
		require.ErrorIs(t, err, entity.ErrInvalidPosition)
		assert.Nil(t, game)
	})

	t.Run("Returns error when the store fails", func(t *testing.T) {
		useCase, f := newUseCase(t, true)
		f.repo.EXPECT().Update(ctx, gameID, mock.Anything).Return(errRedisDown).Once()

		game, err := useCase.MakeMove(ctx, gameID, entity.Move{Row: 0, Col: 0, Mark: entity.MarkX})

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
	})

	t.Run("Succeeds when publishing fails", func(t *testing.T) {
		useCase, f := newUseCase(t, true)
		f.expectUpdate(ctx, entity.NewGame())
		f.events.EXPECT().Publish(ctx, gameID, mock.Anything).Return(errRedisDown).Once()

		game, err := useCase.MakeMove(ctx, gameID, entity.Move{Row: 0, Col: 0, Mark: entity.MarkX})

		require.NoError(t, err)
		assert.True(t, game.Board[0][0].Holds(entity.MarkX))
	})
}

func TestGameUseCase_Subscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the events subscription", func(t *testing.T) {
		useCase, f := newUseCase(t, true)
		sub := &stubSubscription{games: make(chan *entity.Game)}
		f.events.EXPECT().Subscribe(ctx, gameID).Return(sub, nil).Once()

		got, err := useCase.Subscribe(ctx, gameID)

		require.NoError(t, err)
		assert.Same(t, sub, got)
	})

	t.Run("Wraps the subscribe error", func(t *testing.T) {
		useCase, f := newUseCase(t, true)
		f.events.EXPECT().Subscribe(ctx, gameID).Return(nil, errRedisDown).Once()

		got, err := useCase.Subscribe(ctx, gameID)

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, got)
	})
}
