package throttle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// maxTxRetries bounds optimistic-lock retries when concurrent updates
// race on the same key.
const maxTxRetries = 5

// ErrTooMuchContention is returned when an Update keeps losing the
// optimistic lock race.
var ErrTooMuchContention = errors.New("throttle: too much contention on key")

// RedisStore implements Store on Redis, for deployments where multiple
// instances must share throttle state. Atomic updates use WATCH-based
// optimistic transactions; retention maps to key TTLs.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed throttle store.
// Keys are namespaced under "throttle:".
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "throttle:",
	}
}

// Get returns the state for key, or a zero State when absent.
func (rs *RedisStore) Get(ctx context.Context, key string) (State, error) {
	payload, err := rs.client.Get(ctx, rs.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("throttle: redis get: %w", err)
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}, fmt.Errorf("throttle: decode state: %w", err)
	}
	return state, nil
}

// Update atomically applies fn to the state under key using an optimistic
// WATCH transaction, retrying on concurrent modification.
func (rs *RedisStore) Update(ctx context.Context, key string, retention time.Duration, fn func(State) State) error {
	fullKey := rs.prefix + key

	txf := func(tx *redis.Tx) error {
		var state State
		payload, err := tx.Get(ctx, fullKey).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("throttle: redis get: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(payload, &state); err != nil {
				// Unreadable state is discarded rather than wedging the key.
				state = State{}
			}
		}

		state = fn(state)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if state.IsZero() {
				pipe.Del(ctx, fullKey)
				return nil
			}

			encoded, err := json.Marshal(state)
			if err != nil {
				return fmt.Errorf("throttle: encode state: %w", err)
			}
			pipe.Set(ctx, fullKey, encoded, retention)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := rs.client.Watch(ctx, txf, fullKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrTooMuchContention
}

// Delete removes the given keys.
func (rs *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	fullKeys := make([]string, len(keys))
	for i, key := range keys {
		fullKeys[i] = rs.prefix + key
	}

	if err := rs.client.Del(ctx, fullKeys...).Err(); err != nil {
		return fmt.Errorf("throttle: redis del: %w", err)
	}
	return nil
}

// Healthcheck validates Redis connectivity.
func (rs *RedisStore) Healthcheck(ctx context.Context) error {
	if err := rs.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("throttle: redis ping: %w", err)
	}
	return nil
}
