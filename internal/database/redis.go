package database

import (
	"context"
	"fmt"
	"time"

	"marketplace-api/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient returns a connected client, or nil when redis is disabled.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, logger logrus.FieldLogger) (*redis.Client, error) {
	if !cfg.Enabled {
		logger.Warn("redis disabled, token revocation is not persisted")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}
	logger.WithFields(logrus.Fields{"addr": cfg.Addr, "db": cfg.DB}).Info("connected to redis")
	return rdb, nil
}
