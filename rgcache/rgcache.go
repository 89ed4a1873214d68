package rgcache

import (
	"context"
	"math"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gpsartgen/routeart/roadgraph"
)

// DefaultSize is the recommended maximum number of cached graphs.
const DefaultSize = 4

// Key identifies a cached graph by its rounded geographic center and
// request radius, so nearby requests share one cache entry.
type Key struct {
	Lat     float64
	Lng     float64
	RadiusM float64
}

// NewKey rounds (lat, lng) to 3 decimal places (~110m) so requests against
// the same neighborhood collapse to one cache entry.
func NewKey(lat, lng, radiusM float64) Key {
	return Key{Lat: round(lat, 3), Lng: round(lng, 3), RadiusM: radiusM}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))

	return math.Round(v*p) / p
}

// Loader fetches a fresh graph for a cache key miss, e.g. from a
// generator.RoadGraphProvider.
type Loader func(ctx context.Context, key Key) (*roadgraph.Graph, error)

// Cache is a bounded, process-wide LRU of road graphs. Entries are
// immutable once constructed, so reads after the first successful load
// need no locking; only the lazy-init race on a miss is serialized, and
// only for callers racing on the same key.
type Cache struct {
	entries *lru.Cache[Key, *roadgraph.Graph]

	mu       sync.Mutex
	keyLocks map[Key]*sync.Mutex
}

// New builds a Cache holding at most size graphs, evicting the
// least-recently-used entry once full. size <= 0 uses DefaultSize.
func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}

	entries, err := lru.New[Key, *roadgraph.Graph](size)
	if err != nil {
		return nil, err
	}

	return &Cache{entries: entries, keyLocks: make(map[Key]*sync.Mutex)}, nil
}

// Get returns the graph cached for key, calling load on a miss. Concurrent
// Get calls for the same key block on a single load; calls for different
// keys never block each other.
func (c *Cache) Get(ctx context.Context, key Key, load Loader) (*roadgraph.Graph, error) {
	if g, ok := c.entries.Get(key); ok {
		return g, nil
	}

	lock := c.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	if g, ok := c.entries.Get(key); ok {
		return g, nil
	}

	g, err := load(ctx, key)
	if err != nil {
		return nil, err
	}

	c.entries.Add(key, g)

	return g, nil
}

// Len reports the number of graphs currently cached.
func (c *Cache) Len() int { return c.entries.Len() }

func (c *Cache) lockFor(key Key) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		c.keyLocks[key] = l
	}

	return l
}
