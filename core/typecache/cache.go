// Package typecache stores generated proxy implementations by fingerprint.
//
// The cache is filled on demand and never shrinks: generating an
// implementation is expensive and the number of distinct targets a process
// asks for is bounded. Publication follows a first-committer-wins policy.
// Concurrent misses for the same fingerprint may each run the generator,
// but only the first result to be stored is ever returned; the others are
// discarded. Generators run outside of any lock, so a slow generation never
// delays lookups or generations for other fingerprints.
package typecache

import (
	"sync"
	"sync/atomic"
)

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      uint64 // lookups served from the cache
	Misses    uint64 // lookups that ran the generator
	Discarded uint64 // generated values dropped because another caller committed first
}

// Cache maps fingerprints to immutable values of type V.
// The zero value is ready to use.
type Cache[V any] struct {
	entries sync.Map // Fingerprint -> V

	hits      atomic.Uint64
	misses    atomic.Uint64
	discarded atomic.Uint64
	size      atomic.Int64
}

// New returns an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{}
}

// Get returns the value stored for fp, if any. It never generates.
func (c *Cache[V]) Get(fp Fingerprint) (V, bool) {
	if v, ok := c.entries.Load(fp); ok {
		return v.(V), true //nolint:forcetypeassert
	}

	var zero V
	return zero, false
}

// GetOrCreate returns the value stored for fp. On a miss it calls generate and
// publishes the result unless another caller published first, in which case
// the stored value is returned and the generated one dropped. The second
// result reports whether the returned value was generated by this call.
//
// Errors from generate are returned as is and nothing is stored.
func (c *Cache[V]) GetOrCreate(fp Fingerprint, generate func() (V, error)) (V, bool, error) {
	if v, ok := c.entries.Load(fp); ok {
		c.hits.Add(1)
		return v.(V), false, nil //nolint:forcetypeassert
	}

	c.misses.Add(1)

	v, err := generate()
	if err != nil {
		var zero V
		return zero, false, err
	}

	actual, loaded := c.entries.LoadOrStore(fp, v)
	if loaded {
		c.discarded.Add(1)
		return actual.(V), false, nil //nolint:forcetypeassert
	}

	c.size.Add(1)

	return v, true, nil
}

// Len returns the number of stored values.
func (c *Cache[V]) Len() int {
	return int(c.size.Load())
}

// Stats returns the current counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Discarded: c.discarded.Load(),
	}
}
