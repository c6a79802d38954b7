package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/zatekoja/coachlanding/internal/domain/providers"
	"github.com/zatekoja/coachlanding/internal/infrastructure/observability"
)

// tokenCache keeps API tokens for a bounded time. A zero ttl disables caching so every
// call acquires a fresh token.
type tokenCache struct {
	cache providers.CacheProvider
	ttl   time.Duration
}

func newTokenCache(cache providers.CacheProvider, ttl time.Duration) *tokenCache {
	return &tokenCache{cache: cache, ttl: ttl}
}

func (t *tokenCache) enabled() bool {
	return t.cache != nil && t.ttl >= time.Second
}

func (t *tokenCache) get(ctx context.Context, key string, fetch func(context.Context) (string, error)) (string, error) {
	if !t.enabled() {
		return fetch(ctx)
	}

	cached, err := t.cache.Get(ctx, key)
	if err == nil && len(cached) > 0 {
		return string(cached), nil
	}
	if err != nil && !errors.Is(err, providers.ErrCacheMiss) {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Token cache read failed")
	}

	token, err := fetch(ctx)
	if err != nil {
		return "", err
	}

	if err := t.cache.Set(ctx, key, []byte(token), int(t.ttl/time.Second)); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Token cache write failed")
	}
	return token, nil
}

func (t *tokenCache) invalidate(ctx context.Context, key string) {
	if !t.enabled() {
		return
	}
	if err := t.cache.Delete(ctx, key); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Token cache delete failed")
	}
}
