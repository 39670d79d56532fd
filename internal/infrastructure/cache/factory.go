package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/openbiz/backend/internal/infrastructure/config"
)

// NewStore returns a redis store when enabled and reachable, otherwise an
// in-memory store. A redis failure is logged, not returned.
func NewStore(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) Store {
	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-memory cache")
		return NewMemoryStore()
	}
	store, err := NewRedisStore(ctx, RedisConfig{Addr: cfg.Addr(), Password: cfg.Password, DB: cfg.DB})
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory cache",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewMemoryStore()
	}
	logger.Info("Redis cache connected", zap.String("addr", cfg.Addr()))
	return store
}
