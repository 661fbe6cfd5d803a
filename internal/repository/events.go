package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-kv/internal/entity"
)

type GameEvents interface {
	Publish(ctx context.Context, id string, game *entity.Game) error
	Subscribe(ctx context.Context, id string) (Subscription, error)
}

// Subscription delivers every game published after Subscribe returned.
type Subscription interface {
	Games() <-chan *entity.Game
	Close() error
}

type redisEvents struct {
	logger *slog.Logger
	client *redis.Client
}

func NewGameEvents(logger *slog.Logger, client *redis.Client) GameEvents {
	return &redisEvents{
		logger: logger.With("component", "game-events"),
		client: client,
	}
}

func eventsChannel(id string) string {
	return gameKey(id) + ":events"
}

func (that *redisEvents) Publish(ctx context.Context, id string, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.client.Publish(ctx, eventsChannel(id), gameJSON).Err(); err != nil {
		return storeError("failed to publish game", err)
	}

	return nil
}

func (that *redisEvents) Subscribe(ctx context.Context, id string) (Subscription, error) {
	log := that.logger.With("method", "Subscribe", "game", id)

	pubsub := that.client.Subscribe(ctx, eventsChannel(id))

	// wait for the subscription to be confirmed so no publish is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, storeError("failed to subscribe to game", err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		games:  make(chan *entity.Game),
	}

	go func() {
		defer close(sub.games)

		for msg := range pubsub.Channel() {
			game, err := decodeGame([]byte(msg.Payload))
			if err != nil {
				log.Error("dropping undecodable game event", "error", err)
				continue
			}

			select {
			case sub.games <- game:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	games  chan *entity.Game
}

func (that *redisSubscription) Games() <-chan *entity.Game {
	return that.games
}

func (that *redisSubscription) Close() error {
	if err := that.pubsub.Close(); err != nil {
		return fmt.Errorf("failed to close subscription: %w", err)
	}

	return nil
}
