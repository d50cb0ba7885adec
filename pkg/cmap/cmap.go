// Package cmap provides a sharded, string keyed concurrent map. Shards are
// picked with xxhash so that unrelated series and limiters rarely contend on
// the same lock.
package cmap

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ShardCount is the number of shards.
const ShardCount = 32

// ConcurrentMap is a "thread" safe map of type string:Anything.
// To avoid lock bottlenecks this map is divided to several (ShardCount) map shards.
type ConcurrentMap[V any] struct {
	shards []*shard[V]
}

type shard[V any] struct {
	sync.RWMutex // guards items

	items map[string]V
}

// New creates a new concurrent map.
func New[V any]() ConcurrentMap[V] {
	cmap := ConcurrentMap[V]{
		shards: make([]*shard[V], ShardCount),
	}
	for i := range ShardCount {
		cmap.shards[i] = &shard[V]{items: make(map[string]V)}
	}

	return cmap
}

func (m ConcurrentMap[V]) getShard(key string) *shard[V] {
	return m.shards[xxhash.Sum64String(key)%uint64(ShardCount)]
}

// Set sets the given value under the specified key.
func (m ConcurrentMap[V]) Set(key string, value V) {
	shard := m.getShard(key)
	shard.Lock()

	shard.items[key] = value
	shard.Unlock()
}

// UpsertCb callback to return new element to be inserted into the map.
// It is called while lock is held, therefore it MUST NOT
// try to access other keys in same map, as it can lead to deadlock since
// Go sync.RWLock is not reentrant.
type UpsertCb[V any] func(exist bool, valueInMap V) V

// Upsert updates the existing element or inserts a new one using UpsertCb.
func (m ConcurrentMap[V]) Upsert(key string, cb UpsertCb[V]) V {
	shard := m.getShard(key)
	shard.Lock()

	v, ok := shard.items[key]
	res := cb(ok, v)

	shard.items[key] = res
	shard.Unlock()

	return res
}

// SetIfAbsent sets the given value under the specified key if no value was associated with it.
func (m ConcurrentMap[V]) SetIfAbsent(key string, value V) bool {
	shard := m.getShard(key)
	shard.Lock()

	_, ok := shard.items[key]
	if !ok {
		shard.items[key] = value
	}

	shard.Unlock()

	return !ok
}

// Get retrieves an element from map under given key.
func (m ConcurrentMap[V]) Get(key string) (V, bool) {
	shard := m.getShard(key)
	shard.RLock()

	val, ok := shard.items[key]
	shard.RUnlock()

	return val, ok
}

// Has looks up an item under specified key.
func (m ConcurrentMap[V]) Has(key string) bool {
	_, ok := m.Get(key)

	return ok
}

// Pop removes an element from the map and returns it.
func (m ConcurrentMap[V]) Pop(key string) (V, bool) {
	shard := m.getShard(key)
	shard.Lock()

	v, exists := shard.items[key]
	delete(shard.items, key)
	shard.Unlock()

	return v, exists
}

// Count returns the number of elements within the map.
func (m ConcurrentMap[V]) Count() int {
	count := 0

	for _, shard := range m.shards {
		shard.RLock()

		count += len(shard.items)
		shard.RUnlock()
	}

	return count
}

// IterCb is the iterator callback for every key,value found in the map.
// RLock is held for all calls for a given shard, therefore the callback sees
// a consistent view of a shard, but not across the shards.
type IterCb[V any] func(key string, v V)

// IterCb is a callback based iterator, cheapest way to read all elements in a map.
func (m ConcurrentMap[V]) IterCb(fn IterCb[V]) {
	for _, shard := range m.shards {
		shard.RLock()

		for key, value := range shard.items {
			fn(key, value)
		}

		shard.RUnlock()
	}
}

// Keys returns all keys.
func (m ConcurrentMap[V]) Keys() []string {
	keys := make([]string, 0, m.Count())

	m.IterCb(func(key string, _ V) {
		keys = append(keys, key)
	})

	return keys
}

// Clear removes all items from map.
func (m ConcurrentMap[V]) Clear() {
	for _, shard := range m.shards {
		shard.Lock()
		clear(shard.items)
		shard.Unlock()
	}
}
