package dal

import (
	"context"
	"errors"
	"fmt"

	"telconova-dispatch/utils/logger"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each collection under a plain string key.
type RedisStore struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisStore connects to Redis. An unreachable server is logged, not fatal.
func NewRedisStore(ctx context.Context, addr, password string, db int, log logger.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnf("unable to reach redis at %s: %v", addr, err)
	} else {
		log.Info("✅ connected to redis")
	}

	return &RedisStore{client: client, logger: log}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, payload []byte) error {
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		s.logger.Errorf("Failed to store collection %s in redis: %v", key, err)
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
