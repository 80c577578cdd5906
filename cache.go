package ecscore

import (
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
)

// SimpleCache is an append-only, index-addressable store keyed by a
// stable identity. Component and bundle descriptors are registered once
// and never removed, so a growable slice plus a lookup map is the right
// shape. Keyed by reflect.Type since registrations are per-Go-type
// rather than per runtime-supplied name.
type SimpleCache[T any] struct {
	items     []T
	itemIndex map[reflect.Type]int
}

// NewSimpleCache constructs an empty cache.
func NewSimpleCache[T any]() *SimpleCache[T] {
	return &SimpleCache[T]{itemIndex: make(map[reflect.Type]int)}
}

// GetIndex returns the slot index previously registered for ty, if any.
func (c *SimpleCache[T]) GetIndex(ty reflect.Type) (int, bool) {
	index, ok := c.itemIndex[ty]
	return index, ok
}

// GetItem returns a pointer to the item at index, for in-place mutation.
func (c *SimpleCache[T]) GetItem(index int) *T { return &c.items[index] }

// GetItem32 is GetItem for callers holding a 32-bit id (ComponentId,
// BundleId, ...) rather than a plain int.
func (c *SimpleCache[T]) GetItem32(index uint32) *T { return &c.items[index] }

// Register appends item under ty if not already present, returning its
// index either way: registration is monotonic, so re-registering an
// already-known type returns its existing id.
func (c *SimpleCache[T]) Register(ty reflect.Type, item T) int {
	if index, ok := c.itemIndex[ty]; ok {
		return index
	}
	index := len(c.items)
	c.itemIndex[ty] = index
	c.items = append(c.items, item)
	return index
}

func (c *SimpleCache[T]) Len() int { return len(c.items) }

func (c *SimpleCache[T]) All() []T { return c.items }

// dynamicBundleCache deduplicates bundles registered under a caller-
// supplied string key (e.g. a scripted bundle assembled at runtime from
// a component-name list, rather than a static Go tuple type known at
// compile time). Long-running worlds that mint many ad-hoc named
// bundles shouldn't grow this table without bound, so it's LRU-capped,
// unlike the monotonic per-Go-type SimpleCache above.
type dynamicBundleCache struct {
	lru *lru.Cache[string, BundleId]
}

func newDynamicBundleCache(capacity int) *dynamicBundleCache {
	c, err := lru.New[string, BundleId](capacity)
	if err != nil {
		// Only fails for capacity <= 0, a programming error here, not
		// a runtime condition callers need to recover from.
		panic(fmt.Errorf("ecscore: invalid dynamic bundle cache capacity %d: %w", capacity, err))
	}
	return &dynamicBundleCache{lru: c}
}

func (d *dynamicBundleCache) Get(key string) (BundleId, bool) { return d.lru.Get(key) }

func (d *dynamicBundleCache) Put(key string, id BundleId) { d.lru.Add(key, id) }
