package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-kv/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-kv/internal/entity"
)

const defaultMaxRetries = 5

var ErrGameNotFound = errors.New("game not found")

// UpdateFunc receives the stored game, or nil when there is none, and returns
// the game to store. Returning an error aborts the update without writing.
type UpdateFunc func(current *entity.Game) (*entity.Game, error)

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, id string, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	GetOrCreate(ctx context.Context, id string, initial *entity.Game) (*entity.Game, error)
	Update(ctx context.Context, id string, fn UpdateFunc) error
	DeleteByID(ctx context.Context, id string) error
}

type dbGame struct {
	client     *redis.Client
	maxRetries int
}

// NewGameRepository - maxRetries bounds the optimistic write attempts of Update.
func NewGameRepository(client *redis.Client, maxRetries int) GameRepository {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &dbGame{
		client:     client,
		maxRetries: maxRetries,
	}
}

func gameKey(id string) string {
	return "game:" + id
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, id string, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.client.Set(ctx, gameKey(id), gameJSON, 0).Err(); err != nil {
		return storeError("failed to set game", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	response, err := that.client.Get(ctx, gameKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}

	if err != nil {
		return nil, storeError("failed to get game by id", err)
	}

	return decodeGame(response)
}

// GetOrCreate - stores initial unless a game already exists and returns whatever is stored afterwards.
func (that *dbGame) GetOrCreate(ctx context.Context, id string, initial *entity.Game) (*entity.Game, error) {
	gameJSON, err := json.Marshal(initial)
	if err != nil {
		return nil, fmt.Errorf("could not marshal game: %w", err)
	}

	created, err := that.client.SetNX(ctx, gameKey(id), gameJSON, 0).Result()
	if err != nil {
		return nil, storeError("failed to create game", err)
	}

	if created {
		return initial, nil
	}

	return that.GetByID(ctx, id)
}

// Update - read-modify-write guarded by WATCH; a write that loses the race is retried
// against the fresh value, up to maxRetries times.
func (that *dbGame) Update(ctx context.Context, id string, fn UpdateFunc) error {
	key := gameKey(id)

	txFn := func(tx *redis.Tx) error {
		var current *entity.Game

		response, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return storeError("failed to get game by id", err)
		default:
			if current, err = decodeGame(response); err != nil {
				return err
			}
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		gameJSON, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("could not marshal game: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, gameJSON, 0)
			return nil
		})

		return err
	}

	for range that.maxRetries {
		err := that.client.Watch(ctx, txFn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		return err
	}

	return fmt.Errorf("%w: %d attempts", apperror.ErrConcurrentUpdate, that.maxRetries)
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, gameKey(id)).Result()
	if err != nil {
		return storeError("failed to delete game by id", err)
	}

	if deleted == 0 {
		return ErrGameNotFound
	}

	return nil
}

func decodeGame(data []byte) (*entity.Game, error) {
	var game entity.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, apperror.ErrStoreUnavailable, err)
}
