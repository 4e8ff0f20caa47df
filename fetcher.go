package docprimer

import "context"

// Fetcher retrieves HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetcher resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// LinkExtractor extracts anchor targets from HTML.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns every anchor's href resolved
	// against baseURL, in document order.
	ExtractLinks(html string, baseURL string) ([]string, error)
}

// SitemapService discovers URLs from a site's sitemap.
type SitemapService interface {
	// DiscoverURLs returns the sitemap URLs of baseURL's host that pass scope.
	// If scope is nil, all URLs are returned.
	DiscoverURLs(ctx context.Context, baseURL string, scope *Scope) ([]string, error)
}
