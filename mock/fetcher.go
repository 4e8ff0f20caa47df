package mock

import (
	"context"

	"github.com/fwojciec/docprimer"
)

var _ docprimer.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docprimer.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ docprimer.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of docprimer.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}

var _ docprimer.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of docprimer.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, scope *docprimer.Scope) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, scope *docprimer.Scope) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, scope)
}
