package cache

import (
	"context"
	"fmt"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StoreOptions controls how NewIdempotencyStore degrades
type StoreOptions struct {
	// Fallback lets an unreachable Redis degrade to the in-memory store.
	// Production turns it off: keys held by one register alone would let a
	// retried sale through on another.
	Fallback bool
	Logger   *zap.Logger
}

// NewIdempotencyStore returns the Redis store when a host is configured and
// answers, otherwise the in-memory store.
func NewIdempotencyStore(ctx context.Context, cfg config.RedisConfig, opts StoreOptions) (shared.IdempotencyStore, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if !cfg.Enabled() {
		log.Info("redis not configured, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	store, err := NewRedisIdempotencyStore(ctx, cfg)
	switch {
	case err == nil:
		log.Info("using redis idempotency store", zap.String("addr", cfg.Addr()))
		return store, nil
	case !opts.Fallback:
		return nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}

	log.Warn("redis unavailable, falling back to in-memory idempotency store",
		zap.String("addr", cfg.Addr()), zap.Error(err))
	return NewInMemoryIdempotencyStore(), nil
}
