package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFor(t *testing.T) {
	a := KeyFor("triples", []byte(`{"nodes":[]}`))
	b := KeyFor("triples", []byte(`{"nodes":[]}`))
	c := KeyFor("ttl", []byte(`{"nodes":[]}`))
	d := KeyFor("triples", []byte(`{"nodes":[1]}`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Contains(t, string(a), "triples:")
}

func TestKeyFor_FormatBoundary(t *testing.T) {
	assert.NotEqual(t, KeyFor("ab", []byte("c")), KeyFor("a", []byte("bc")))
}

func TestNew_InvalidSize(t *testing.T) {
	_, err := New[string](0)
	assert.Error(t, err)
}

func TestCache_GetAdd(t *testing.T) {
	c, err := New[string](2)
	require.NoError(t, err)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Add("a", "1")
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := New[int](2)
	require.NoError(t, err)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Get("a")
	c.Add("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.Stats().Evictions)
	assert.Equal(t, 2, c.Len())
}

func TestCache_Purge(t *testing.T) {
	c, err := New[int](4)
	require.NoError(t, err)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestCache_Concurrent(t *testing.T) {
	c, err := New[int](64)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := Key(fmt.Sprintf("k%d", i%32))
				c.Add(key, w)
				c.Get(key)
			}
		}(w)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 64)
	stats := c.Stats()
	assert.Equal(t, int64(8*200), stats.Hits+stats.Misses)
}
