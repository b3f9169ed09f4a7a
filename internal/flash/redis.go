package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/ui"
)

const keyPrefix = "flash:"

// RedisStore keeps one Redis list per session so alerts survive restarts and
// are shared between storefront replicas.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func key(session string) string {
	return keyPrefix + session
}

func (s *RedisStore) Push(ctx context.Context, session string, msg ui.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal flash message: %w", err)
	}

	k := key(session)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, k, payload)
		pipe.Expire(ctx, k, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push flash message: %w", err)
	}
	return nil
}

func (s *RedisStore) Pop(ctx context.Context, session string) ([]ui.Message, error) {
	k := key(session)

	var lrange *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, k, 0, -1)
		pipe.Del(ctx, k)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pop flash messages: %w", err)
	}

	raw := lrange.Val()
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]ui.Message, 0, len(raw))
	for _, r := range raw {
		var msg ui.Message
		if err := json.Unmarshal([]byte(r), &msg); err != nil {
			return out, fmt.Errorf("unmarshal flash message: %w", err)
		}
		out = append(out, msg)
	}
	return out, nil
}
