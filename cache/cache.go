package cache

import (
	"context"
	"errors"
	"time"
)

// Cache stores JSON-encodable lookups that change rarely, such as the payment
// method list.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")
