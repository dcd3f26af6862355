package cache

import (
	"strings"
	"sync"
	"time"

	"quoteservice/internal/provider"
)

// DefaultTTL is how long a stored quote is served before it goes stale.
const DefaultTTL = 30 * time.Second

// entry stores the cached quote for a single symbol.
type entry struct {
	storedAt time.Time
	quote    provider.Quote
}

// Cache holds at most one quote per uppercased symbol. Stale entries are
// never evicted, only ignored and later overwritten.
type Cache struct {
	TTL time.Duration
	Now func() time.Time

	mu    sync.RWMutex
	items map[string]entry // key: upper-cased symbol
}

// New returns a Cache with the given TTL. ttl <= 0 uses DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{TTL: ttl, Now: time.Now, items: make(map[string]entry)}
}

// Key normalizes a symbol into its cache key.
func Key(symbol string) string { return strings.ToUpper(symbol) }

// Get returns the quote stored for symbol if it is younger than TTL.
func (c *Cache) Get(symbol string) (provider.Quote, bool) {
	now := c.Now()
	c.mu.RLock()
	e, ok := c.items[Key(symbol)]
	c.mu.RUnlock()
	if !ok || now.Sub(e.storedAt) >= c.TTL {
		return provider.Quote{}, false
	}
	return e.quote, true
}

// Put stores q for symbol, replacing any previous entry. Concurrent puts
// for the same symbol are last-write-wins.
func (c *Cache) Put(symbol string, q provider.Quote) {
	now := c.Now()
	c.mu.Lock()
	if c.items == nil {
		c.items = make(map[string]entry)
	}
	c.items[Key(symbol)] = entry{storedAt: now, quote: q}
	c.mu.Unlock()
}

// Stats reports the number of stored entries and how many of them are
// still fresh.
func (c *Cache) Stats() (total, fresh int) {
	now := c.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.items {
		if now.Sub(e.storedAt) < c.TTL {
			fresh++
		}
	}
	return len(c.items), fresh
}
