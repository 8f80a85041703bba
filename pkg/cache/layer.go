package cache

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"golang.org/x/sync/singleflight"

	"MacroPull/pkg/logger"
)

type entry struct {
	value   interface{}
	created time.Time
	ttl     time.Duration
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.created) > e.ttl
}

// envelope is the second-level representation. It keeps the creation time so
// a hit from another process expires at the same moment.
type envelope[T any] struct {
	Created time.Time     `json:"created"`
	TTL     time.Duration `json:"ttl"`
	Value   T             `json:"value"`
}

// Layer memoizes computations by key with a TTL. Concurrent callers of the
// same key share one computation; distinct keys never wait on each other.
// The mutex only guards the entries map and is never held across a compute.
type Layer struct {
	mu      sync.Mutex
	entries *simplelru.LRU[string, *entry]
	group   singleflight.Group

	maxEntries int
	now        func() time.Time
	store      Store
	recorder   Recorder
	log        *logger.Logger
}

// NewLayer creates a layer.
func NewLayer(opts ...LayerOption) *Layer {
	l := &Layer{now: time.Now, log: logger.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	size := l.maxEntries
	if size <= 0 {
		size = math.MaxInt
	}
	// NewLRU only fails on a non-positive size.
	l.entries, _ = simplelru.NewLRU[string, *entry](size, nil)
	return l
}

// GetOrCompute returns the fresh value for key or runs compute at most once
// for all concurrent callers and stores its result for ttl. Errors are
// returned to every waiter and never stored. A caller whose ctx ends returns
// ctx.Err() while the shared computation keeps running for the others.
func GetOrCompute[T any](ctx context.Context, l *Layer, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	var zero T
	op := Operation(key)

	if v, ok := l.lookup(key); ok {
		if t, ok := v.(T); ok {
			l.record(op, true)
			return t, nil
		}
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (interface{}, error) {
		// Another flight may have completed between lookup and DoChan.
		if v, ok := l.lookup(key); ok {
			if t, ok := v.(T); ok {
				l.record(op, true)
				return t, nil
			}
		}
		if t, ok := loadStore[T](flightCtx, l, key); ok {
			l.record(op, true)
			return t, nil
		}

		l.record(op, false)
		v, err := compute(flightCtx)
		if err != nil {
			return nil, err
		}
		created := l.now()
		l.put(key, &entry{value: v, created: created, ttl: ttl})
		saveStore(flightCtx, l, key, envelope[T]{Created: created, TTL: ttl, Value: v})
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		t, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("cache: key %q holds %T", key, res.Val)
		}
		return t, nil
	}
}

func (l *Layer) lookup(key string) (interface{}, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries.Get(key)
	if !ok {
		return nil, false
	}
	if e.expired(l.now()) {
		l.entries.Remove(key)
		return nil, false
	}
	return e.value, true
}

func (l *Layer) put(key string, e *entry) {
	if e.ttl <= 0 {
		return
	}
	l.mu.Lock()
	l.entries.Add(key, e)
	l.mu.Unlock()
}

// Len returns the number of entries, expired ones included until touched.
func (l *Layer) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries.Len()
}

// Invalidate drops key from both levels.
func (l *Layer) Invalidate(ctx context.Context, key string) {
	l.mu.Lock()
	l.entries.Remove(key)
	l.mu.Unlock()
	if l.store != nil {
		if err := l.store.Delete(ctx, key); err != nil {
			l.log.Warn("cache store delete failed", logger.String("key", key), logger.Error(err))
		}
	}
}

func (l *Layer) record(op string, hit bool) {
	if l.recorder != nil {
		l.recorder.RecordCache(op, hit)
	}
}

func loadStore[T any](ctx context.Context, l *Layer, key string) (T, bool) {
	var zero T
	if l.store == nil {
		return zero, false
	}
	var env envelope[T]
	if err := l.store.Get(ctx, key, &env); err != nil {
		switch {
		case errors.Is(err, ErrCacheMiss):
		case errors.Is(err, ErrCorrupt):
			// Written by a build with another shape for this key.
			l.log.Warn("cache store value undecodable, dropping", logger.String("key", key), logger.Error(err))
			l.Invalidate(ctx, key)
		default:
			l.log.Warn("cache store get failed", logger.String("key", key), logger.Error(err))
		}
		return zero, false
	}
	e := &entry{value: env.Value, created: env.Created, ttl: env.TTL}
	if e.expired(l.now()) {
		return zero, false
	}
	l.put(key, e)
	return env.Value, true
}

func saveStore[T any](ctx context.Context, l *Layer, key string, env envelope[T]) {
	if l.store == nil || env.TTL <= 0 {
		return
	}
	if err := l.store.Set(ctx, key, env, env.TTL); err != nil {
		l.log.Warn("cache store set failed", logger.String("key", key), logger.Error(err))
	}
}

// Operation returns the operation part of a key built by Key.
func Operation(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
