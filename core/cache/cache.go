// Package cache provides memoization for values derived from an immutable corpus.
//
// Memo keys results by argument and is bounded by an LRU; Value holds a single
// argument-free result. Both cache only successful computations and never replace
// a stored value, so concurrent first accesses converge on one result.
package cache

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the entry limit used when a Memo is created with a non-positive size.
const DefaultSize = 1024

// Stats contains cache statistics.
type Stats struct {
	Hits    int64
	Misses  int64
	Size    int
	MaxSize int
}

// Memo memoizes a computation per key. It is safe for concurrent use.
type Memo[K comparable, V any] struct {
	entries *lru.Cache[K, V]
	maxSize int
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewMemo creates a memo holding at most size entries.
func NewMemo[K comparable, V any](size int) (*Memo[K, V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[K, V](size)
	if err != nil {
		return nil, err
	}
	return &Memo[K, V]{entries: entries, maxSize: size}, nil
}

// Get returns the memoized value for key, calling compute on a miss.
// Errors from compute are returned and not cached. If another caller stored
// a value for key while compute ran, that stored value wins.
func (m *Memo[K, V]) Get(key K, compute func(K) (V, error)) (V, error) {
	if v, ok := m.entries.Get(key); ok {
		m.hits.Add(1)
		return v, nil
	}
	m.misses.Add(1)

	v, err := compute(key)
	if err != nil {
		var zero V
		return zero, err
	}

	if prev, found, _ := m.entries.PeekOrAdd(key, v); found {
		return prev, nil
	}
	return v, nil
}

// Peek returns a cached value without computing or touching recency.
func (m *Memo[K, V]) Peek(key K) (V, bool) {
	return m.entries.Peek(key)
}

// Len returns the number of cached entries.
func (m *Memo[K, V]) Len() int {
	return m.entries.Len()
}

// Purge removes all entries.
func (m *Memo[K, V]) Purge() {
	m.entries.Purge()
}

// Stats returns cache statistics.
func (m *Memo[K, V]) Stats() Stats {
	return Stats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Size:    m.entries.Len(),
		MaxSize: m.maxSize,
	}
}

// Value memoizes a single computation. The zero value is ready to use.
type Value[T any] struct {
	mu    sync.Mutex
	done  bool
	value T
}

// Get returns the memoized value, calling compute the first time.
// A failed computation is retried on the next call.
func (c *Value[T]) Get(compute func() (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done {
		return c.value, nil
	}
	v, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	c.value = v
	c.done = true
	return v, nil
}

// Loaded reports whether a value has been stored.
func (c *Value[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}
