// Package crawl provides documentation crawling orchestration.
// It walks a site breadth-first from one or more seed URLs and writes every
// fetched page to the corpus.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/fwojciec/docprimer"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the number of fetches allowed in flight across all
// seed traversals.
const DefaultConcurrency = 4

// Crawler walks documentation sites and writes raw pages to the corpus.
type Crawler struct {
	Fetcher docprimer.Fetcher
	Links   docprimer.LinkExtractor
	Writer  docprimer.CorpusWriter
	Scope   *docprimer.Scope

	// Sitemaps, when set, adds the in-scope sitemap URLs of each seed's
	// host to that seed's traversal.
	Sitemaps docprimer.SitemapService

	// Concurrency caps simultaneous fetches for the whole crawl,
	// regardless of the number of seeds.
	Concurrency int

	// MaxPages limits the URLs visited per seed. Zero means unlimited.
	MaxPages int

	Logger   *slog.Logger
	Progress ProgressFunc
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type ProgressType
	URL  string
	Path string
	Err  error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressWritten ProgressType = iota
	ProgressFailed
)

// ProgressFunc is a callback for reporting crawl progress.
// It may be called from several goroutines at once.
type ProgressFunc func(event ProgressEvent)

// stats accumulates counters shared by all traversals of a crawl.
type stats struct {
	visited atomic.Int64
	written atomic.Int64
	failed  atomic.Int64
	bytes   atomic.Int64
}

func (s *stats) result() *docprimer.CrawlResult {
	return &docprimer.CrawlResult{
		Visited: int(s.visited.Load()),
		Written: int(s.written.Load()),
		Failed:  int(s.failed.Load()),
		Bytes:   int(s.bytes.Load()),
	}
}

// Crawl runs one breadth-first traversal per seed and waits for all of them.
// Seeds are always fetched; discovered links are followed only when they
// match the crawler's scope. Fetch failures are logged and the URL is
// dropped. A corpus write failure cancels the crawl and is returned along
// with the counts gathered so far.
func (c *Crawler) Crawl(ctx context.Context, seeds []string) (*docprimer.CrawlResult, error) {
	if len(seeds) == 0 {
		return nil, docprimer.Errorf(docprimer.EINVALID, "at least one seed URL required")
	}
	if c.Scope == nil {
		return nil, docprimer.Errorf(docprimer.EINVALID, "crawl scope required")
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	sem := semaphore.NewWeighted(int64(concurrency))

	var st stats
	g, gctx := errgroup.WithContext(ctx)
	for _, seed := range seeds {
		g.Go(func() error {
			return c.traverse(gctx, seed, sem, &st)
		})
	}
	err := g.Wait()
	return st.result(), err
}

// traverse drains a private frontier started from seed.
func (c *Crawler) traverse(ctx context.Context, seed string, sem *semaphore.Weighted, st *stats) error {
	logger := c.logger().With("seed", seed)

	frontier := NewFrontier()
	frontier.Push(seed)
	c.addSitemapURLs(ctx, seed, frontier, logger)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		url, ok := frontier.Pop()
		if !ok {
			return nil
		}
		if c.MaxPages > 0 && frontier.Visited() > c.MaxPages {
			logger.Warn("page limit reached", "limit", c.MaxPages, "queued", frontier.Len()+1)
			return nil
		}
		st.visited.Add(1)

		html, err := c.fetch(ctx, sem, url)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			st.failed.Add(1)
			logger.Warn("fetch failed", "url", url, "error", err)
			c.report(ProgressEvent{Type: ProgressFailed, URL: url, Err: err})
			continue
		}

		page := &docprimer.PageRecord{URL: url, RawHTML: html}
		if err := c.Writer.WritePage(ctx, page); err != nil {
			return fmt.Errorf("write %s: %w", url, err)
		}
		st.written.Add(1)
		st.bytes.Add(int64(len(html)))
		logger.Debug("page written", "url", url, "path", page.OutputPath)
		c.report(ProgressEvent{Type: ProgressWritten, URL: url, Path: page.OutputPath})

		links, err := c.Links.ExtractLinks(html, url)
		if err != nil {
			logger.Warn("link extraction failed", "url", url, "error", err)
			continue
		}
		for _, link := range links {
			if c.Scope.Match(link) {
				frontier.Push(link)
			}
		}
	}
}

// fetch holds one slot of the crawl-wide semaphore for the duration of the fetch.
func (c *Crawler) fetch(ctx context.Context, sem *semaphore.Weighted, url string) (string, error) {
	if err := sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer sem.Release(1)
	return c.Fetcher.Fetch(ctx, url)
}

func (c *Crawler) addSitemapURLs(ctx context.Context, seed string, frontier *Frontier, logger *slog.Logger) {
	if c.Sitemaps == nil {
		return
	}
	urls, err := c.Sitemaps.DiscoverURLs(ctx, seed, c.Scope)
	if err != nil {
		logger.Warn("sitemap discovery failed", "error", err)
		return
	}
	var added int
	for _, u := range urls {
		if frontier.Push(u) {
			added++
		}
	}
	logger.Info("sitemap urls queued", "count", added)
}

func (c *Crawler) report(event ProgressEvent) {
	if c.Progress != nil {
		c.Progress(event)
	}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
