package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/docprimer/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier_Push_rejects_duplicate_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	assert.True(t, f.Push("https://example.com/docs/page1"), "first push should succeed")
	assert.False(t, f.Push("https://example.com/docs/page1"), "duplicate URL should be rejected")
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_Push_rejects_visited_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push("https://example.com/a")
	_, ok := f.Pop()
	require.True(t, ok)

	assert.False(t, f.Push("https://example.com/a"))
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_Pop_returns_URLs_in_FIFO_order(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push("https://example.com/first")
	f.Push("https://example.com/second")
	f.Push("https://example.com/third")

	var got []string
	for {
		url, ok := f.Pop()
		if !ok {
			break
		}
		got = append(got, url)
	}

	assert.Equal(t, []string{
		"https://example.com/first",
		"https://example.com/second",
		"https://example.com/third",
	}, got)
	assert.Equal(t, 3, f.Visited())
}

func TestFrontier_Pop_returns_false_when_empty(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	url, ok := f.Pop()

	assert.False(t, ok)
	assert.Empty(t, url)
}

func TestFrontier_strips_fragments(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	assert.True(t, f.Push("https://example.com/docs#intro"))
	assert.False(t, f.Push("https://example.com/docs#usage"))
	assert.False(t, f.Push("https://example.com/docs"))
	assert.False(t, f.Push("https://example.com/docs#anything"))

	url, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/docs", url)
}

func TestFrontier_concurrent_pushes_accept_each_URL_once(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if f.Push(fmt.Sprintf("https://example.com/page/%d", i)) {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, accepted)
	assert.Equal(t, 100, f.Len())
}
