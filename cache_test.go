package texart

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHitsAndMisses(t *testing.T) {
	c := NewCache(10)

	first, err := c.Render(`\frac{a}{b}`)
	require.NoError(t, err)
	second, err := c.Render(`\frac{a}{b}`)
	require.NoError(t, err)
	require.Equal(t, first, second, "cached output differs")

	stats := c.Stats()
	require.Equal(t, 1, stats.Size)
	require.Equal(t, uint64(1), stats.Hits)
	require.Equal(t, uint64(1), stats.Misses)
	require.InDelta(t, 50.0, stats.HitRate(), 1e-9)
}

func TestCacheKeyIncludesOptions(t *testing.T) {
	c := NewCache(10)

	unicode, err := c.Render(`\sqrt{x}`)
	require.NoError(t, err)
	ascii, err := c.Render(`\sqrt{x}`, WithGlyphs(ASCIIGlyphs))
	require.NoError(t, err)

	require.NotEqual(t, unicode, ascii, "glyph sets share a cache entry")
	require.Equal(t, 2, c.Stats().Size)
}

func TestCacheSkipsFailures(t *testing.T) {
	c := NewCache(10)
	_, err := c.Render(`\frac{a}`)
	require.Error(t, err)
	require.Zero(t, c.Stats().Size, "failed render was cached")
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(2)

	for _, in := range []string{"a", "b"} {
		_, err := c.Render(in)
		require.NoError(t, err)
	}
	// Touch "a" so "b" is the least recently used.
	_, err := c.Render("a")
	require.NoError(t, err)
	_, err = c.Render("c")
	require.NoError(t, err)

	stats := c.Stats()
	require.Equal(t, 2, stats.Size)
	require.Equal(t, uint64(1), stats.Evictions)

	hits := stats.Hits
	_, err = c.Render("a")
	require.NoError(t, err)
	require.Equal(t, hits+1, c.Stats().Hits, `"a" should have survived eviction`)
}

func TestCacheClear(t *testing.T) {
	c := NewCache(0)
	for i := 0; i < 5; i++ {
		_, err := c.Render(fmt.Sprint(i))
		require.NoError(t, err)
	}
	c.Clear()
	require.Zero(t, c.Stats().Size)
}

func TestCacheConcurrent(t *testing.T) {
	c := NewCache(4)
	inputs := []string{"a", `\frac{a}{b}`, `\sqrt{x}`, "x^2", "y_1", "z"}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := inputs[i%len(inputs)]
			want, err := Render(in)
			if !assert.NoError(t, err) {
				return
			}
			got, err := c.Render(in)
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, want, got, "cache output for %q", in)
		}(i)
	}
	wg.Wait()

	require.LessOrEqual(t, c.Stats().Size, 4)
}

func TestRenderCached(t *testing.T) {
	want, err := Render("q")
	require.NoError(t, err)
	got, err := RenderCached("q")
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.NotZero(t, DefaultCacheStats().Size, "default cache is empty after RenderCached")
}

func TestSetDefaultCacheSize(t *testing.T) {
	SetDefaultCacheSize(8)
	defer SetDefaultCacheSize(1024)

	_, err := RenderCached("m")
	require.NoError(t, err)
	stats := DefaultCacheStats()
	require.Equal(t, 8, stats.MaxSize)
	require.Equal(t, 1, stats.Size)
}
