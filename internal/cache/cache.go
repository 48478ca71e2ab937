// Package cache memoizes field resolutions.
//
// Entries are keyed by the full resolution context, value map content
// included, and negative results are cached as well. There is no eviction:
// the cache lives as long as the process and is cleared wholesale when the
// content model is reloaded.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/agentic-research/fieldpath/internal/schema"
	"github.com/spf13/cast"
	"golang.org/x/sync/singleflight"
)

// Context is the part of a resolution request that identifies a result.
type Context struct {
	Collection string
	File       string
	Component  string
	KeyPath    string
	IndexFile  bool
	Values     map[string]any
}

// Result is a cached resolution. Found is false for negative entries.
type Result struct {
	Field schema.Field
	Found bool
}

// Stats counts cache traffic since the cache was created.
type Stats struct {
	Hits     uint64
	Misses   uint64
	Bypassed uint64
	Entries  int
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Result
	gen     uint64 // bumped by Clear; guarded by mu

	flight singleflight.Group

	hits     atomic.Uint64
	misses   atomic.Uint64
	bypassed atomic.Uint64
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]Result)}
}

// Key returns the canonical key of c. Each value is encoded with its
// dynamic type and, where it has one, the string form the discriminator
// lookup reads. Map keys are sorted, so equal maps give equal keys
// regardless of identity or insertion order.
func Key(c Context) (string, error) {
	values := make(map[string]keyValue, len(c.Values))
	for k, v := range c.Values {
		values[k] = newKeyValue(v)
	}
	// Positional encoding keeps the field order fixed.
	data, err := json.Marshal([]any{c.Collection, c.File, c.Component, c.KeyPath, c.IndexFile, values})
	if err != nil {
		return "", fmt.Errorf("serialize resolution context: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// keyValue is the encoding of one value map entry. Values without a string
// form fall back to their JSON encoding.
type keyValue struct {
	Type string `json:"t"`
	Str  string `json:"s,omitempty"`
	JSON any    `json:"j,omitempty"`
}

func newKeyValue(v any) keyValue {
	kv := keyValue{Type: fmt.Sprintf("%T", v)}
	if s, err := cast.ToStringE(v); err == nil {
		kv.Str = s
	} else {
		kv.JSON = v
	}
	return kv
}

// Get returns the cached result for c. ok is false on a miss, including
// when c cannot be keyed.
func (c *Cache) Get(ctx Context) (Result, bool) {
	key, err := Key(ctx)
	if err != nil {
		c.bypassed.Add(1)
		return Result{}, false
	}
	res, ok := c.lookup(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return res, ok
}

// Put stores res for c. Contexts that cannot be keyed are not stored.
func (c *Cache) Put(ctx Context, res Result) {
	key, err := Key(ctx)
	if err != nil {
		c.bypassed.Add(1)
		return
	}
	c.mu.Lock()
	c.entries[key] = res
	c.mu.Unlock()
}

// Do returns the cached result for ctx, computing and storing it on a miss.
// Concurrent misses on the same key share one computation, but never one
// that started before the latest Clear. Such a result is returned to the
// callers that were already waiting, and is not stored.
func (c *Cache) Do(ctx Context, compute func() Result) Result {
	key, err := Key(ctx)
	if err != nil {
		c.bypassed.Add(1)
		return compute()
	}

	c.mu.RLock()
	res, ok := c.entries[key]
	gen := c.gen
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return res
	}
	c.misses.Add(1)

	v, _, _ := c.flight.Do(strconv.FormatUint(gen, 10)+":"+key, func() (any, error) {
		res := compute()

		c.mu.Lock()
		if c.gen == gen {
			c.entries[key] = res
		}
		c.mu.Unlock()
		return res, nil
	})
	return v.(Result)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Result)
	c.gen++
	c.mu.Unlock()
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Bypassed: c.bypassed.Load(),
		Entries:  c.Len(),
	}
}

func (c *Cache) lookup(key string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.entries[key]
	return res, ok
}
