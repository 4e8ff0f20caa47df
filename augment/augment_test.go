package augment_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/docprimer"
	"github.com/fwojciec/docprimer/augment"
	"github.com/fwojciec/docprimer/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthrough returns a Normalizer that leaves text unchanged.
func passthrough() *mock.Normalizer {
	return &mock.Normalizer{
		NormalizeFn: func(text string) (string, []docprimer.DiffLine, error) {
			return text, nil, nil
		},
	}
}

type fixture struct {
	augmenter *augment.Augmenter
	fetches   atomic.Int64
	searched  string

	mu      sync.Mutex
	written []string
}

func newFixture(results []docprimer.SearchResult, pages map[string]string) *fixture {
	f := &fixture{}
	f.augmenter = &augment.Augmenter{
		Searcher: &mock.Searcher{
			SearchFn: func(_ context.Context, query string) ([]docprimer.SearchResult, error) {
				f.searched = query
				return results, nil
			},
		},
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				f.fetches.Add(1)
				html, ok := pages[url]
				if !ok {
					return "", errors.New("HTTP 404 for " + url)
				}
				return html, nil
			},
		},
		Converter: &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return strings.TrimSuffix(strings.TrimPrefix(html, "<p>"), "</p>"), nil
			},
		},
		Normalizer: passthrough(),
		Corpus: &mock.CorpusWriter{
			WriteQueryFn: func(_ context.Context, query string, entries []string) (string, error) {
				f.mu.Lock()
				defer f.mu.Unlock()
				f.written = entries
				return "markdown/" + strings.ReplaceAll(query, " ", "_") + ".md", nil
			},
		},
		Site: "thalesdocs.com",
	}
	return f
}

func TestAugmenter_Augment(t *testing.T) {
	t.Parallel()

	results := []docprimer.SearchResult{
		{Title: "Key Rotation", Link: "https://thalesdocs.com/a", Description: "Rotating keys"},
		{Title: "Key Policies", Link: "https://thalesdocs.com/b", Description: "Policies"},
		{Title: "Unrelated", Link: "https://thalesdocs.com/c", Description: "Never fetched"},
	}
	pages := map[string]string{
		"https://thalesdocs.com/a": "<p>rotate</p>",
		"https://thalesdocs.com/b": "<p>policy</p>",
		"https://thalesdocs.com/c": "<p>other</p>",
	}

	t.Run("builds context from the top results", func(t *testing.T) {
		t.Parallel()

		f := newFixture(results, pages)

		got, err := f.augmenter.Augment(context.Background(), "key rotation")

		require.NoError(t, err)
		assert.Equal(t, "site:thalesdocs.com key rotation", f.searched)
		assert.Equal(t, int64(2), f.fetches.Load())
		require.Len(t, f.written, 2)
		assert.Equal(t, "## 1. Key Rotation\n*Rotating keys*\n[Source](https://thalesdocs.com/a)\n\n```\nrotate\n```\n\n", f.written[0])
		assert.Equal(t, "key rotation", got.Query)
		assert.Equal(t, "markdown/key_rotation.md", got.Path)
		assert.Equal(t, 2, got.Results)
		assert.False(t, got.Truncated)
		assert.Equal(t, f.written[0]+"\n\n"+f.written[1], got.Text)
	})

	t.Run("returns no-results sentinel without fetching", func(t *testing.T) {
		t.Parallel()

		f := newFixture(nil, pages)

		got, err := f.augmenter.Augment(context.Background(), "nothing here")

		assert.Nil(t, got)
		require.ErrorIs(t, err, docprimer.ErrNoResults)
		assert.Equal(t, docprimer.ENORESULTS, docprimer.ErrorCode(err))
		assert.Equal(t, docprimer.NoResultsMessage, docprimer.ErrorMessage(err))
		assert.Equal(t, int64(0), f.fetches.Load())
		assert.Nil(t, f.written)
	})

	t.Run("skips results whose fetch fails and keeps numbering", func(t *testing.T) {
		t.Parallel()

		f := newFixture(results, map[string]string{"https://thalesdocs.com/b": "<p>policy</p>"})

		got, err := f.augmenter.Augment(context.Background(), "policies")

		require.NoError(t, err)
		require.Len(t, f.written, 1)
		assert.True(t, strings.HasPrefix(f.written[0], "## 2. Key Policies\n"))
		assert.Equal(t, 1, got.Results)
	})

	t.Run("returns no-results sentinel when every fetch fails", func(t *testing.T) {
		t.Parallel()

		f := newFixture(results, map[string]string{})

		_, err := f.augmenter.Augment(context.Background(), "policies")

		require.ErrorIs(t, err, docprimer.ErrNoResults)
		assert.Nil(t, f.written)
	})

	t.Run("truncates context to the budget", func(t *testing.T) {
		t.Parallel()

		f := newFixture(results, pages)
		f.augmenter.Budget = 10

		got, err := f.augmenter.Augment(context.Background(), "key rotation")

		require.NoError(t, err)
		assert.Equal(t, "## 1. Key ", got.Text)
		assert.True(t, got.Truncated)
	})

	t.Run("uses the extractor when configured", func(t *testing.T) {
		t.Parallel()

		f := newFixture(results[:1], pages)
		f.augmenter.Extractor = &mock.Extractor{
			ExtractFn: func(_ string) (*docprimer.ExtractResult, error) {
				return &docprimer.ExtractResult{ContentHTML: "<p>main only</p>"}, nil
			},
		}

		got, err := f.augmenter.Augment(context.Background(), "key rotation")

		require.NoError(t, err)
		assert.Contains(t, got.Text, "```\nmain only\n```")
	})

	t.Run("searches without site operator when site is empty", func(t *testing.T) {
		t.Parallel()

		f := newFixture(results, pages)
		f.augmenter.Site = ""

		_, err := f.augmenter.Augment(context.Background(), "key rotation")

		require.NoError(t, err)
		assert.Equal(t, "key rotation", f.searched)
	})

	t.Run("returns search errors", func(t *testing.T) {
		t.Parallel()

		errNet := errors.New("connection refused")
		f := newFixture(results, pages)
		f.augmenter.Searcher = &mock.Searcher{
			SearchFn: func(_ context.Context, _ string) ([]docprimer.SearchResult, error) {
				return nil, errNet
			},
		}

		_, err := f.augmenter.Augment(context.Background(), "key rotation")

		require.ErrorIs(t, err, errNet)
		assert.NotErrorIs(t, err, docprimer.ErrNoResults)
	})

	t.Run("rejects empty query", func(t *testing.T) {
		t.Parallel()

		f := newFixture(results, pages)

		_, err := f.augmenter.Augment(context.Background(), " ")

		assert.Equal(t, docprimer.EINVALID, docprimer.ErrorCode(err))
	})
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	t.Run("returns exact prefix when longer than limit", func(t *testing.T) {
		t.Parallel()

		s := strings.Repeat("abcde", 10)

		got := augment.Truncate(s, 10)

		assert.Len(t, got, 10)
		assert.Equal(t, s[:10], got)
	})

	t.Run("returns input unchanged when within limit", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "short", augment.Truncate("short", 10))
		assert.Equal(t, "exact", augment.Truncate("exact", 5))
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "héllo", augment.Truncate("héllo wörld", 5))
	})

	t.Run("returns empty string for non-positive limit", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, augment.Truncate("abc", 0))
	})
}
