package asn

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_ShouldRetry(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := 30 * time.Second

	tests := []struct {
		name  string
		setup func(c *Cache)
		now   time.Time
		want  bool
	}{
		{
			name:  "no entry is always eligible",
			setup: func(c *Cache) {},
			now:   base,
			want:  true,
		},
		{
			name: "cached success is never retried",
			setup: func(c *Cache) {
				c.Put("192.0.2.1", "AS64496", true, base)
			},
			now:  base.Add(24 * time.Hour),
			want: false,
		},
		{
			name: "cached failure before ttl",
			setup: func(c *Cache) {
				c.Put("192.0.2.1", "", false, base)
			},
			now:  base.Add(ttl - time.Second),
			want: false,
		},
		{
			name: "cached failure exactly at ttl",
			setup: func(c *Cache) {
				c.Put("192.0.2.1", "", false, base)
			},
			now:  base.Add(ttl),
			want: true,
		},
		{
			name: "cached failure past ttl",
			setup: func(c *Cache) {
				c.Put("192.0.2.1", "", false, base)
			},
			now:  base.Add(ttl + time.Minute),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache()
			tt.setup(c)
			assert.Equal(t, tt.want, c.ShouldRetry("192.0.2.1", tt.now, ttl))
		})
	}
}

func TestCache_PutOverwrites(t *testing.T) {
	c := NewCache()
	base := time.Now()

	c.Put("10.0.0.1", "", false, base)
	entry, ok := c.Get("10.0.0.1")
	assert.True(t, ok)
	assert.False(t, entry.OK)

	c.Put("10.0.0.1", "AS64500", true, base.Add(time.Minute))
	entry, ok = c.Get("10.0.0.1")
	assert.True(t, ok)
	assert.True(t, entry.OK)
	assert.Equal(t, "AS64500", entry.Value)
	assert.Equal(t, 1, c.Size())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewCache()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Put("198.51.100.7", "AS64501", true, now)
				c.Get("198.51.100.7")
				c.ShouldRetry("198.51.100.7", now, time.Second)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, c.Size())
}
