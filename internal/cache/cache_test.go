package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_CaseInsensitive(t *testing.T) {
	assert.Equal(t, Key("Jack"), Key("jack"))
	assert.NotEqual(t, Key("jack"), Key("jill"))
	assert.Contains(t, Key("jack"), "birdwatch:v1:")
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_, found := c.Get("missing")
	assert.False(t, found)

	require.NoError(t, c.Set("k", []byte("v"), time.Minute))
	val, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, c.Delete("k"))
	_, found = c.Get("k")
	assert.False(t, found)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	require.NoError(t, c.Set("k", []byte("v"), 10*time.Millisecond))

	time.Sleep(30 * time.Millisecond)
	_, found := c.Get("k")
	assert.False(t, found)
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	require.NoError(t, c.Set("k", []byte("v"), 0))
	val, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("v"), val)
}

func TestDiskCache_Expired(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	require.NoError(t, c.Set("k", []byte("v"), -time.Second))

	_, found := c.Get("k")
	assert.False(t, found)
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)
	require.NoError(t, c.Set("k", []byte("v"), time.Minute))

	// A fresh layered cache over the same dir has a cold memory layer
	// but should still hit via disk.
	warm := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := warm.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("v"), val)
}
