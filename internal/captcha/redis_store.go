package captcha

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "captcha:"

// RedisStore is a base64Captcha.Store backed by Redis, so challenges survive
// restarts and are shared across instances.
type RedisStore struct {
	client *redis.Client
	expiry time.Duration
}

func NewRedisStore(addr string, expiry time.Duration) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		expiry: expiry,
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Set(id string, value string) error {
	return s.client.Set(context.Background(), redisKeyPrefix+id, value, s.expiry).Err()
}

func (s *RedisStore) Get(id string, clear bool) string {
	ctx := context.Background()
	key := redisKeyPrefix + id

	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Error("captcha store read failed", "error", err)
		}
		return ""
	}
	if clear {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			slog.Error("captcha store delete failed", "error", err)
		}
	}
	return val
}

func (s *RedisStore) Verify(id, answer string, clear bool) bool {
	stored := s.Get(id, clear)
	return stored != "" && stored == answer
}
