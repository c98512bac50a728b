package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTL_SetGet(t *testing.T) {
	c := NewTTL[string](time.Hour)
	c.Set("grandoakbarn.com", "cached page")

	got, ok := c.Get("grandoakbarn.com")
	assert.True(t, ok)
	assert.Equal(t, "cached page", got)
}

func TestTTL_Miss(t *testing.T) {
	c := NewTTL[string](time.Hour)
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestTTL_Expiry(t *testing.T) {
	c := NewTTL[string](time.Hour)
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Set("key", "value")

	current = current.Add(59 * time.Minute)
	_, ok := c.Get("key")
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry pruned on read")
}

func TestTTL_ZeroTTLDisables(t *testing.T) {
	c := NewTTL[int](0)
	c.Set("key", 42)
	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestTTL_NilSafe(t *testing.T) {
	var c *TTL[string]
	c.Set("key", "value")
	c.Delete("key")
	_, ok := c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTL_Delete(t *testing.T) {
	c := NewTTL[string](time.Hour)
	c.Set("key", "value")
	c.Delete("key")
	_, ok := c.Get("key")
	assert.False(t, ok)
}
