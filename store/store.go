package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-away-stress/config"
	"go-away-stress/model"
	redisClient "go-away-stress/redis"
)

// ErrUnavailable wraps every failure to reach the backing store
var ErrUnavailable = errors.New("row store unavailable")

// RowStore is the durable, append-only sheet of submissions
type RowStore interface {
	Append(ctx context.Context, row model.Row) error
	Rows(ctx context.Context) ([]model.Row, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Name() string
	Close() error
}

// Open builds the store selected by cfg.Storage.Driver
func Open(cfg config.Config) (RowStore, error) {
	switch cfg.Storage.Driver {
	case "", "redis":
		rdb, err := redisClient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return NewRedisStore(rdb, cfg.Redis.RowsKey), nil
	case "sqlite":
		db, err := sql.Open("sqlite3", cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return NewSQLiteStore(db)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
