// Package namecache interns decoded element names.
//
// Dump files repeat the same field names in every document, so the decoder
// keeps a byte-keyed LRU of names it has already validated. Hits return the
// previously allocated string: Go optimizes map[string]V lookups with []byte
// keys to avoid the []byte to string conversion.
//
// Concurrency: 16 shards, each behind its own mutex.
package namecache

import (
	"container/list"
	"hash/fnv"
	"sync"
)

// defaultCapacity is the default maximum number of entries in the cache.
const defaultCapacity = 4096

// MaxNameLen is the longest name that is cached. Longer names are decoded
// every time.
const MaxNameLen = 64

// numShards must be a power of two.
const numShards = 16

type entry struct {
	key  string
	name string
}

// lruCache maps raw name bytes to the interned string.
type lruCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = most recently used
}

// newCache creates an LRU cache with the given capacity.
// A capacity of 0 disables caching.
func newCache(capacity int) *lruCache {
	return &lruCache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

func (c *lruCache) lookup(raw []byte) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.capacity == 0 {
		return "", false
	}
	elem, ok := c.items[string(raw)]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*entry).name, true
}

func (c *lruCache) store(raw []byte, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.capacity == 0 {
		return
	}
	if elem, ok := c.items[string(raw)]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*entry).name = name
		return
	}
	if c.order.Len() >= c.capacity {
		c.evict()
	}
	e := &entry{key: string(raw), name: name}
	c.items[e.key] = c.order.PushFront(e)
}

// evict drops the least recently used entry. Callers hold mu.
func (c *lruCache) evict() {
	back := c.order.Back()
	if back == nil {
		return
	}
	c.order.Remove(back)
	delete(c.items, back.Value.(*entry).key)
}

// setCapacity changes the capacity, evicting down to it if needed.
func (c *lruCache) setCapacity(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capacity = n
	for c.order.Len() > n {
		c.evict()
	}
}

func (c *lruCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// shardedCache spreads entries over numShards independent caches.
type shardedCache struct {
	shards [numShards]*lruCache
}

func perShard(capacity int) int {
	n := capacity / numShards
	if n < 1 && capacity > 0 {
		n = 1
	}
	return n
}

func newShardedCache(capacity int) *shardedCache {
	sc := &shardedCache{}
	for i := range sc.shards {
		sc.shards[i] = newCache(perShard(capacity))
	}
	return sc
}

func (sc *shardedCache) shard(raw []byte) *lruCache {
	h := fnv.New32a()
	h.Write(raw) //nolint:errcheck // fnv hash.Write never errors
	return sc.shards[h.Sum32()&(numShards-1)]
}

func (sc *shardedCache) setCapacity(n int) {
	for _, s := range sc.shards {
		s.setCapacity(perShard(n))
	}
}

func (sc *shardedCache) reset() {
	for _, s := range sc.shards {
		s.reset()
	}
}

func (sc *shardedCache) len() int {
	total := 0
	for _, s := range sc.shards {
		total += s.len()
	}
	return total
}

var global = newShardedCache(defaultCapacity)

// Lookup returns the interned name for raw, if cached.
func Lookup(raw []byte) (string, bool) {
	if len(raw) > MaxNameLen {
		return "", false
	}
	return global.shard(raw).lookup(raw)
}

// Store interns name under raw. Only names that decoded to exactly their
// raw bytes should be stored.
func Store(raw []byte, name string) {
	if len(raw) > MaxNameLen {
		return
	}
	global.shard(raw).store(raw, name)
}

// SetCapacity changes the total capacity. Pass 0 to disable caching.
func SetCapacity(n int) { global.setCapacity(n) }

// Reset clears all cached entries without changing capacity.
func Reset() { global.reset() }

// Len returns the current number of cached entries.
func Len() int { return global.len() }
