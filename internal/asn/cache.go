package asn

import (
	"sync"
	"time"
)

// Entry is one cached lookup result. OK=false records a failed lookup, which
// is distinct from the address having no entry at all.
type Entry struct {
	Value     string // "AS<number>" when OK
	OK        bool
	FetchedAt time.Time
}

// Cache provides thread-safe caching of ASN lookup results by IP address.
// Successes are kept for the process lifetime; failures become eligible for
// retry once the failure TTL has elapsed.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewCache creates a new empty ASN cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]Entry),
	}
}

// Get retrieves the cached entry for an IP address.
func (c *Cache) Get(ip string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[ip]
	return entry, ok
}

// Put stores a lookup result for an IP address, overwriting any previous
// entry.
func (c *Cache) Put(ip, value string, ok bool, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[ip] = Entry{Value: value, OK: ok, FetchedAt: now}
}

// ShouldRetry reports whether a lookup for the address is due:
//   - never attempted: yes
//   - cached success: no, successes are stable for the run
//   - cached failure: only once failureTTL has elapsed since the attempt
func (c *Cache) ShouldRetry(ip string, now time.Time, failureTTL time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[ip]
	if !ok {
		return true
	}
	if entry.OK {
		return false
	}
	return now.Sub(entry.FetchedAt) >= failureTTL
}

// Size returns the number of cached entries.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
