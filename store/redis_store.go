package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go-away-stress/model"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

const defaultRowsKey = "survey:rows"

// RedisStore keeps rows as JSON entries of a single Redis list
type RedisStore struct {
	redis *redis.Client
	key   string
}

// NewRedisStore wraps an existing client; an empty key uses "survey:rows"
func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = defaultRowsKey
	}
	return &RedisStore{redis: rdb, key: key}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Append(ctx context.Context, row model.Row) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	if err := s.redis.RPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Rows returns every stored row in append order. Entries that no longer
// decode are skipped.
func (s *RedisStore) Rows(ctx context.Context) ([]model.Row, error) {
	entries, err := s.redis.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	rows := make([]model.Row, 0, len(entries))
	for i, entry := range entries {
		var row model.Row
		if err := json.Unmarshal([]byte(entry), &row); err != nil {
			log.Warn().Err(err).Int("index", i).Str("key", s.key).Msg("Skipping undecodable row")
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Count is the number of rows Rows returns, so undecodable entries are not
// counted
func (s *RedisStore) Count(ctx context.Context) (int64, error) {
	rows, err := s.Rows(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.redis.Close()
}
