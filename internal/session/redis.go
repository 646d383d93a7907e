package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// RedisStore keeps session values in Redis as JSON strings. Every Put
// refreshes the TTL, so active sessions stay alive and abandoned carts
// expire on their own.
type RedisStore struct {
	rdb *rd.Client
	ttl time.Duration
}

func NewRedisStore(rdb *rd.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
