package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()
	c.Set("dashboard:overview", []byte("payload"), time.Minute)

	value, ok := c.Get("dashboard:overview")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), value)

	_, ok = c.Get("dashboard:missing")
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	current := time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Set("key", []byte("v"), 5*time.Minute)
	_, ok := c.Get("key")
	assert.True(t, ok)

	current = current.Add(6 * time.Minute)
	_, ok = c.Get("key")
	assert.False(t, ok)
}

func TestMemoryCacheInvalidatePrefix(t *testing.T) {
	c := NewMemoryCache()
	c.Set("dashboard:overview", []byte("a"), time.Minute)
	c.Set("dashboard:course:7", []byte("b"), time.Minute)
	c.Set("quiz:slug:foo", []byte("c"), time.Minute)

	c.Invalidate("dashboard:")

	_, ok := c.Get("dashboard:overview")
	assert.False(t, ok)
	_, ok = c.Get("dashboard:course:7")
	assert.False(t, ok)
	_, ok = c.Get("quiz:slug:foo")
	assert.True(t, ok)
}
