package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tomasvera/debtwise/internal/models"
)

// RedisBackend persists the snapshot as JSON under a single fixed key
// and broadcasts change notices over pub/sub so other sessions can
// replace their local snapshot.
type RedisBackend struct {
	client    *redis.Client
	key       string
	channel   string
	sessionID string
	log       *logrus.Logger
}

// NewRedisBackend connects to redis and returns a snapshot backend
func NewRedisBackend(addr, key string, log *logrus.Logger) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	return &RedisBackend{
		client:    client,
		key:       key,
		channel:   key + ":changes",
		sessionID: hex.EncodeToString(buf),
		log:       log,
	}, nil
}

// Load reads the persisted snapshot. A missing key yields the default
// empty snapshot; a malformed payload fails closed to the default with
// a logged diagnostic instead of propagating a parse error.
func (b *RedisBackend) Load(ctx context.Context) (models.FinancialState, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return EmptyState(), nil
	}
	if err != nil {
		return models.FinancialState{}, fmt.Errorf("failed to read snapshot key %s: %w", b.key, err)
	}

	var state models.FinancialState
	if err := json.Unmarshal(data, &state); err != nil {
		b.log.Errorf("Discarding malformed snapshot under %s: %v", b.key, err)
		return EmptyState(), nil
	}
	return state, nil
}

// Save writes the snapshot and publishes a change notice tagged with
// this session's id so the session can ignore its own writes.
func (b *RedisBackend) Save(ctx context.Context, state models.FinancialState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot key %s: %w", b.key, err)
	}
	if err := b.client.Publish(ctx, b.channel, b.sessionID).Err(); err != nil {
		b.log.Warnf("Failed to publish snapshot change: %v", err)
	}
	return nil
}

// Watch emits a snapshot whenever another session writes the key. The
// channel closes when ctx is canceled.
func (b *RedisBackend) Watch(ctx context.Context) (<-chan models.FinancialState, error) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	out := make(chan models.FinancialState)
	go func() {
		defer close(out)
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				if msg.Payload == b.sessionID {
					continue
				}
				state, err := b.Load(ctx)
				if err != nil {
					b.log.Errorf("Failed to load externally changed snapshot: %v", err)
					continue
				}
				select {
				case out <- state:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
