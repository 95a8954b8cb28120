package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"go-bighil/internal/config"
	"go-bighil/internal/database"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RedisRelay publishes outbox events on a Redis channel and replays every
// message received on that channel into the local hub, so each instance
// delivers to its own connections.
type RedisRelay struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSink picks the relay when Redis is configured and the hub otherwise.
func NewSink(lc fx.Lifecycle, cfg *config.Config, rdb *database.Redis, hub *Hub, logger *zap.Logger) Sink {
	if !rdb.Enabled() {
		return hub
	}

	relay := NewRedisRelay(rdb.Client, cfg.Redis.Channel, hub, logger)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return relay.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			relay.Stop()
			return nil
		},
	})
	return relay
}

func NewRedisRelay(client *redis.Client, channel string, hub *Hub, logger *zap.Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		hub:     hub,
		logger:  logger,
	}
}

func (r *RedisRelay) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, data).Err()
}

func (r *RedisRelay) Start(ctx context.Context) error {
	subCtx, cancel := context.WithCancel(context.Background())
	pubsub := r.client.Subscribe(subCtx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return err
	}
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				r.forward(msg.Payload)
			}
		}
	}()

	r.logger.Info("realtime relay subscribed", zap.String("channel", r.channel))
	return nil
}

func (r *RedisRelay) forward(payload string) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		r.logger.Warn("discarding malformed realtime message", zap.Error(err))
		return
	}
	r.hub.Deliver(ev)
}

func (r *RedisRelay) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}
