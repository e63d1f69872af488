package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/davimluiz/copiacantinho-sub000/internal/config"
	"github.com/go-redis/redis/v8"
)

// RedisStore keeps each collection under its own key
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("cannot ping redis: %w", err)
	}
	return NewRedisStoreWithClient(rdb, cfg.KeyPrefix), nil
}

func NewRedisStoreWithClient(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(collection string) string {
	return s.prefix + collection
}

func (s *RedisStore) Load(ctx context.Context, collection string, dst any) error {
	data, err := s.rdb.Get(ctx, s.key(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", collection, err)
	}
	return decode(collection, data, dst)
}

func (s *RedisStore) Save(ctx context.Context, collection string, src any) error {
	data, err := encode(collection, src)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(collection), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", collection, err)
	}
	return nil
}

func (s *RedisStore) Close(context.Context) error {
	return s.rdb.Close()
}
