package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[string, int](2)

	c.Set("fr", 1)
	c.Set("de", 2)
	_, _ = c.Get("fr")
	c.Set("it", 3)

	_, ok := c.Get("de")
	assert.False(t, ok, "de should have been evicted")

	v, ok := c.Get("fr")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Stats().Len)
}

func TestLRU_SetUpdatesExisting(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("fr", 1)
	c.Set("fr", 10)

	v, ok := c.Get("fr")
	require.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, c.Stats().Len)
}

func TestLRU_ZeroCapacity(t *testing.T) {
	c := NewLRU[string, int](0)
	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 1, c.Stats().Len)
}

func TestLRU_Load(t *testing.T) {
	c := NewLRU[string, string](4)
	calls := 0
	load := func(k string) (string, error) {
		calls++
		return "flags/" + k + ".png", nil
	}

	v, err := c.Load("fr", load)
	require.NoError(t, err)
	assert.Equal(t, "flags/fr.png", v)

	v, err = c.Load("fr", load)
	require.NoError(t, err)
	assert.Equal(t, "flags/fr.png", v)
	assert.Equal(t, 1, calls)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestLRU_LoadErrorNotCached(t *testing.T) {
	c := NewLRU[string, int](4)
	boom := errors.New("boom")
	calls := 0

	for range 2 {
		_, err := c.Load("xx", func(string) (int, error) {
			calls++
			return 0, boom
		})
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, c.Stats().Len)
}

func TestLRU_Remove(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Remove("a")
	c.Remove("missing")

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int, int](16)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				c.Set(j%32, n)
				_, _ = c.Get(j % 32)
				_, _ = c.Load(j%32, func(k int) (int, error) { return k, nil })
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Stats().Len, 16)
}
