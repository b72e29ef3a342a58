package cache

import (
	"context"
	"time"
)

// Cache stores small JSON documents and raw blobs (synthesized audio) with a
// TTL.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	GetBytes(ctx context.Context, key string) (val []byte, hit bool, err error)
	SetBytes(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
