package database

import (
	"context"
	"time"

	"go-storefront/pkg/config"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis. An empty address disables Redis and returns
// a nil client.
func InitRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.Db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}
