// Package cache keeps backend payloads in memory with a per-entry time to
// live.
//
// Expired entries are refreshed lazily on the next lookup. At most one fetch
// per key is in flight; concurrent callers for that key wait for the shared
// result. When a refresh fails and an older value exists, the older value is
// served and the failure is reported as a soft warning on the lookup.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrFetchRequired indicates GetOrFetch was called without a fetch function.
var ErrFetchRequired = errors.New("cache fetch function is required")

// FetchFunc loads a fresh value for one key.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Lookup describes the value returned for one key and how it was obtained.
type Lookup[V any] struct {
	Value     V
	FetchedAt time.Time
	// CacheHit is true when the value was served without a backend call.
	CacheHit bool
	// Stale is true when a refresh failed and an expired value was served.
	Stale bool
	// RefreshErr carries the refresh failure behind a stale value.
	RefreshErr error
}

// Entry stores one cached value.
type Entry[V any] struct {
	Value     V
	FetchedAt time.Time
	TTL       time.Duration
}

// Expired reports whether the entry age exceeds its TTL at now.
func (e Entry[V]) Expired(now time.Time) bool {
	return now.Sub(e.FetchedAt) > e.TTL
}

// Option configures a Store.
type Option func(*options)

type options struct {
	clock func() time.Time
	logf  func(string, ...any)
}

// WithClock overrides the time source used for expiry decisions.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogf sets the logger used for stale-serve warnings.
func WithLogf(logf func(string, ...any)) Option {
	return func(o *options) {
		o.logf = logf
	}
}

// Store is an in-memory key/value cache for one value type.
//
// The entry map lock is held only for map reads and writes, never across a
// fetch, so a slow refresh of one key does not block lookups of other keys.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[V]
	flights singleflight.Group
	clock   func() time.Time
	logf    func(string, ...any)
}

// New creates an empty store.
func New[V any](opts ...Option) *Store[V] {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[V]{
		entries: make(map[string]Entry[V]),
		clock:   o.clock,
		logf:    o.logf,
	}
}

// flightResult is what one shared fetch hands to every waiter.
type flightResult[V any] struct {
	lookup Lookup[V]
}

// GetOrFetch returns the cached value for key, fetching it when the entry is
// missing or older than ttl.
//
// The fetch runs detached from the caller's cancellation so that one caller
// giving up does not fail the refresh for every other waiter; fetch is
// expected to bound its own duration. A caller whose ctx ends stops waiting
// and receives ctx.Err().
func (s *Store[V]) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc[V]) (Lookup[V], error) {
	if fetch == nil {
		return Lookup[V]{}, ErrFetchRequired
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if entry, ok := s.get(key); ok && !entry.Expired(s.now()) {
		return Lookup[V]{Value: entry.Value, FetchedAt: entry.FetchedAt, CacheHit: true}, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := s.flights.DoChan(key, func() (any, error) {
		return s.refresh(fetchCtx, key, ttl, fetch)
	})

	select {
	case <-ctx.Done():
		return Lookup[V]{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Lookup[V]{}, res.Err
		}
		return res.Val.(flightResult[V]).lookup, nil
	}
}

// refresh runs inside the single flight for key.
func (s *Store[V]) refresh(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc[V]) (flightResult[V], error) {
	previous, hasPrevious := s.get(key)
	// A flight that finished between the caller's check and this one may
	// already have stored a fresh value.
	if hasPrevious && !previous.Expired(s.now()) {
		return flightResult[V]{lookup: Lookup[V]{Value: previous.Value, FetchedAt: previous.FetchedAt, CacheHit: true}}, nil
	}

	value, err := safeFetch(ctx, fetch)
	if err != nil {
		if !hasPrevious {
			return flightResult[V]{}, fmt.Errorf("fetch %s: %w", key, err)
		}
		if s.logf != nil {
			s.logf("cache %s: refresh failed, serving value fetched at %s: %v", key, previous.FetchedAt.Format(time.RFC3339), err)
		}
		return flightResult[V]{lookup: Lookup[V]{
			Value:      previous.Value,
			FetchedAt:  previous.FetchedAt,
			CacheHit:   true,
			Stale:      true,
			RefreshErr: err,
		}}, nil
	}

	fetchedAt := s.now()
	s.mu.Lock()
	s.entries[key] = Entry[V]{Value: value, FetchedAt: fetchedAt, TTL: ttl}
	s.mu.Unlock()
	return flightResult[V]{lookup: Lookup[V]{Value: value, FetchedAt: fetchedAt}}, nil
}

// safeFetch converts a panicking fetch into an error; a panic inside a
// single flight would otherwise be re-raised on an unrecoverable goroutine.
func safeFetch[V any](ctx context.Context, fetch FetchFunc[V]) (value V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch panicked: %v", r)
		}
	}()
	return fetch(ctx)
}

// Peek returns the stored entry for key regardless of expiry.
func (s *Store[V]) Peek(key string) (Entry[V], bool) {
	return s.get(key)
}

// Invalidate drops the entry for key so the next lookup fetches.
func (s *Store[V]) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store[V]) get(key string) (Entry[V], bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	return entry, ok
}

func (s *Store[V]) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock()
}
