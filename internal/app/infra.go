package app

import (
	"context"
	"errors"

	"entry-gate/internal/config"
	"entry-gate/internal/db"
	"entry-gate/internal/logger"
	"entry-gate/internal/redis"
)

// Infra holds the shared connections. DB is nil when no DSN is configured.
type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	if cfg.DatabaseDSN != "" {
		database, err := db.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		infra.DB = database
		logger.Info("database ready", nil)
	}

	redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	infra.Redis = redisClient
	logger.Info("redis ready", map[string]any{"addr": cfg.RedisAddr})

	return infra, nil
}

// Close releases every open connection.
func (i *Infra) Close() error {
	var errs []error
	if i.DB != nil {
		errs = append(errs, i.DB.Close())
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	return errors.Join(errs...)
}
