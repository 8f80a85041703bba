package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
	// ErrCorrupt wraps values a Store holds but cannot decode into dest.
	ErrCorrupt = errors.New("cache: undecodable value")
)

// Store is a shared second-level store behind the in-process layer.
// Get returns ErrCacheMiss when key is absent and ErrCorrupt when the stored
// value does not decode.
type Store interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// Recorder receives hit/miss outcomes per operation.
type Recorder interface {
	RecordCache(op string, hit bool)
}
