package cache

import (
	"time"

	"MacroPull/pkg/logger"
)

// RedisOption configures Redis cache.
type RedisOption func(*RedisConfig)

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	PoolTimeout  time.Duration
	MinIdleConns int
	Prefix       string
}

// WithRedisAddr sets the host:port address.
func WithRedisAddr(addr string) RedisOption {
	return func(c *RedisConfig) {
		c.Addr = addr
	}
}

// WithRedisPassword sets Redis password.
func WithRedisPassword(password string) RedisOption {
	return func(c *RedisConfig) {
		c.Password = password
	}
}

// WithRedisDB sets Redis database number.
func WithRedisDB(db int) RedisOption {
	return func(c *RedisConfig) {
		c.DB = db
	}
}

// WithRedisPool sets connection pool settings.
func WithRedisPool(poolSize, minIdleConns int, timeout time.Duration) RedisOption {
	return func(c *RedisConfig) {
		c.PoolSize = poolSize
		c.MinIdleConns = minIdleConns
		c.PoolTimeout = timeout
	}
}

// WithRedisPrefix sets key prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(c *RedisConfig) {
		c.Prefix = prefix
	}
}

// LayerOption configures Layer.
type LayerOption func(*Layer)

// WithClock replaces time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) LayerOption {
	return func(l *Layer) {
		l.now = now
	}
}

// WithMaxEntries bounds the layer; the least recently used entry is evicted
// on insert once full. n <= 0 means unbounded.
func WithMaxEntries(n int) LayerOption {
	return func(l *Layer) {
		l.maxEntries = n
	}
}

// WithStore adds a shared second level.
func WithStore(s Store) LayerOption {
	return func(l *Layer) {
		l.store = s
	}
}

// WithRecorder reports hits and misses.
func WithRecorder(r Recorder) LayerOption {
	return func(l *Layer) {
		l.recorder = r
	}
}

// WithLogger sets the logger used for second-level failures.
func WithLogger(log *logger.Logger) LayerOption {
	return func(l *Layer) {
		l.log = log
	}
}
