package clean_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/docprimer"
	"github.com/fwojciec/docprimer/clean"
	"github.com/fwojciec/docprimer/goquery"
	"github.com/fwojciec/docprimer/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func upper() *mock.Normalizer {
	return &mock.Normalizer{
		NormalizeFn: func(text string) (string, []docprimer.DiffLine, error) {
			return strings.ToUpper(text), nil, nil
		},
	}
}

func TestCleaner_CleanDirectory(t *testing.T) {
	t.Parallel()

	t.Run("returns one result per file for any pool size", func(t *testing.T) {
		t.Parallel()

		for _, workers := range []int{1, 3, 16} {
			t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
				t.Parallel()

				dir := t.TempDir()
				for i := 0; i < 10; i++ {
					writeFile(t, filepath.Join(dir, fmt.Sprintf("page%d.md", i)), fmt.Sprintf("page %d", i))
				}
				c := &clean.Cleaner{Normalizer: upper(), Workers: workers}

				results, err := c.CleanDirectory(context.Background(), dir)

				require.NoError(t, err)
				require.Len(t, results, 10)
				seen := map[string]bool{}
				for _, r := range results {
					require.NoError(t, r.Err)
					seen[r.Path] = true
				}
				assert.Len(t, seen, 10)
				assert.Equal(t, "PAGE 3", readFile(t, filepath.Join(dir, "page3.md")))
			})
		}
	})

	t.Run("never exceeds the worker limit", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		for i := 0; i < 12; i++ {
			writeFile(t, filepath.Join(dir, fmt.Sprintf("p%d.md", i)), "x")
		}
		var inFlight, peak atomic.Int64
		n := &mock.Normalizer{
			NormalizeFn: func(text string) (string, []docprimer.DiffLine, error) {
				cur := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					p := peak.Load()
					if cur <= p || peak.CompareAndSwap(p, cur) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				return text, nil, nil
			},
		}
		c := &clean.Cleaner{Normalizer: n, Workers: 3}

		results, err := c.CleanDirectory(context.Background(), dir)

		require.NoError(t, err)
		assert.Len(t, results, 12)
		assert.LessOrEqual(t, peak.Load(), int64(3))
	})

	t.Run("isolates per-file failures", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "good.md"), "good")
		writeFile(t, filepath.Join(dir, "bad.md"), "bad")
		errParse := errors.New("parse error")
		n := &mock.Normalizer{
			NormalizeFn: func(text string) (string, []docprimer.DiffLine, error) {
				if text == "bad" {
					return "", nil, errParse
				}
				return "cleaned " + text, nil, nil
			},
		}
		c := &clean.Cleaner{Normalizer: n, Workers: 2}

		results, err := c.CleanDirectory(context.Background(), dir)

		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, r := range results {
			if filepath.Base(r.Path) == "bad.md" {
				assert.ErrorIs(t, r.Err, errParse)
			} else {
				assert.NoError(t, r.Err)
			}
		}
		assert.Equal(t, "bad", readFile(t, filepath.Join(dir, "bad.md")))
		assert.Equal(t, "cleaned good", readFile(t, filepath.Join(dir, "good.md")))
	})

	t.Run("walks nested directories and ignores other extensions", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.md"), "a")
		writeFile(t, filepath.Join(dir, "nested", "b.md"), "b")
		writeFile(t, filepath.Join(dir, "notes.txt"), "skip")
		c := &clean.Cleaner{Normalizer: upper(), Workers: 2}

		results, err := c.CleanDirectory(context.Background(), dir)

		require.NoError(t, err)
		assert.Len(t, results, 2)
		assert.Equal(t, "B", readFile(t, filepath.Join(dir, "nested", "b.md")))
		assert.Equal(t, "skip", readFile(t, filepath.Join(dir, "notes.txt")))
	})

	t.Run("returns an error for a missing directory", func(t *testing.T) {
		t.Parallel()

		c := &clean.Cleaner{Normalizer: upper(), Workers: 2}

		_, err := c.CleanDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"))

		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("returns empty results for an empty directory", func(t *testing.T) {
		t.Parallel()

		c := &clean.Cleaner{Normalizer: upper()}

		results, err := c.CleanDirectory(context.Background(), t.TempDir())

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("logs json documents separately", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "openapi.json.md"), `{"a": 1}`)
		var buf bytes.Buffer
		c := &clean.Cleaner{
			Normalizer: upper(),
			Workers:    1,
			Logger:     slog.New(slog.NewTextHandler(&buf, nil)),
		}

		_, err := c.CleanDirectory(context.Background(), dir)

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "cleaned json document")
	})

	t.Run("strips scripts from crawled pages on disk", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "index.md")
		writeFile(t, path, "<script>evil()</script><p>Hello <b>World</b></p>")
		c := &clean.Cleaner{Normalizer: goquery.NewNormalizer(), Workers: 1}

		results, err := c.CleanDirectory(context.Background(), dir)

		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NoError(t, results[0].Err)
		content := readFile(t, path)
		assert.Contains(t, content, "Hello World")
		assert.NotContains(t, content, "evil()")
	})
}
