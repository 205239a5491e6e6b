package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/codeready-toolchain/agentforge/pkg/models"
)

// Stats reports Output Cache observability counters (spec.md §4.3).
type Stats struct {
	Hits    int
	Misses  int
	Size    int
	MaxSize int
	HitRate float64
}

type node struct {
	fingerprint string
	entry       models.CacheEntry
}

// buildWaiter lets concurrent callers for the same fingerprint block on
// the single in-flight build and receive its result (spec.md §4.3).
type buildWaiter struct {
	done   chan struct{}
	result models.CacheEntry
	ok     bool
}

// Cache is a bounded fingerprint→CacheEntry map with LRU+TTL eviction and
// at-most-one-concurrent-build semantics, grounded on the teacher's
// pkg/session.Manager (mutex-guarded map) generalized with an in-flight
// marker in the style of pkg/queue/worker.go's claim idiom.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	elems    map[string]*list.Element
	order    *list.List // front = most recently used
	inflight map[string]*buildWaiter
	hits     int
	misses   int
	now      func() time.Time
}

// New creates a Cache bounded to capacity entries, each expiring ttl
// after creation (ttl <= 0 disables TTL expiry).
func New(capacity int, ttl time.Duration) *Cache {
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		elems:    make(map[string]*list.Element),
		order:    list.New(),
		inflight: make(map[string]*buildWaiter),
		now:      time.Now,
	}
}

// Get returns the entry for fp if present and not expired.
func (c *Cache) Get(fp string) (models.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(fp)
}

func (c *Cache) getLocked(fp string) (models.CacheEntry, bool) {
	el, ok := c.elems[fp]
	if !ok {
		c.misses++
		return models.CacheEntry{}, false
	}
	n := el.Value.(*node)
	if c.ttl > 0 && c.now().Sub(n.entry.CreatedAt) > c.ttl {
		c.removeLocked(el)
		c.misses++
		return models.CacheEntry{}, false
	}
	c.order.MoveToFront(el)
	c.hits++
	return n.entry, true
}

// Put stores output/confidence for fp, evicting the least-recently-used
// entry if the cache is at capacity.
func (c *Cache) Put(fp, provider, output string, confidence int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(fp, provider, output, confidence)
}

func (c *Cache) putLocked(fp, provider, output string, confidence int) {
	entry := models.CacheEntry{
		Fingerprint: fp,
		Provider:    provider,
		Output:      output,
		Confidence:  confidence,
		CreatedAt:   c.now(),
	}

	if el, ok := c.elems[fp]; ok {
		el.Value.(*node).entry = entry
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&node{fingerprint: fp, entry: entry})
	c.elems[fp] = el

	if c.capacity > 0 {
		for c.order.Len() > c.capacity {
			back := c.order.Back()
			if back == nil {
				break
			}
			c.removeLocked(back)
		}
	}
}

func (c *Cache) removeLocked(el *list.Element) {
	n := el.Value.(*node)
	delete(c.elems, n.fingerprint)
	c.order.Remove(el)
}

// Stats returns a snapshot of cache observability counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	var rate float64
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Size:    c.order.Len(),
		MaxSize: c.capacity,
		HitRate: rate,
	}
}

// Builder produces an output for a cache miss.
type Builder func() (output string, confidence int, err error)

// GetOrBuild looks up fp; on a miss it either becomes the single builder
// (calling build) or waits for a concurrent builder's result (spec.md
// §4.3: "at-most-one concurrent build per fingerprint"). If build fails,
// the in-flight marker is cleared and the next caller retries (spec.md
// §7: cache build failure is recoverable inside the core).
func (c *Cache) GetOrBuild(fp, provider string, build Builder) (models.CacheEntry, error) {
	c.mu.Lock()
	if entry, ok := c.getLocked(fp); ok {
		c.mu.Unlock()
		return entry, nil
	}

	if w, building := c.inflight[fp]; building {
		c.mu.Unlock()
		<-w.done
		if w.ok {
			return w.result, nil
		}
		// Builder failed; fall through by re-entering (at most once more
		// per call, bounded recursion since the marker was cleared).
		return c.GetOrBuild(fp, provider, build)
	}

	w := &buildWaiter{done: make(chan struct{})}
	c.inflight[fp] = w
	c.mu.Unlock()

	output, confidence, err := build()

	c.mu.Lock()
	delete(c.inflight, fp)
	if err != nil {
		c.mu.Unlock()
		close(w.done)
		return models.CacheEntry{}, err
	}
	c.putLocked(fp, provider, output, confidence)
	entry := c.elems[fp].Value.(*node).entry
	c.mu.Unlock()

	w.result = entry
	w.ok = true
	close(w.done)
	return entry, nil
}
