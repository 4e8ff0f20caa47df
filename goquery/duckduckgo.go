package goquery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docprimer"
)

// DefaultSearchEndpoint is the DuckDuckGo HTML search endpoint.
// It needs no API key.
const DefaultSearchEndpoint = "https://html.duckduckgo.com/html/"

// DefaultMaxResults caps the number of results returned per search.
const DefaultMaxResults = 10

// maxSearchBody limits how much of a results page is read.
const maxSearchBody = 1 << 20

// Ensure DuckDuckGo implements docprimer.Searcher.
var _ docprimer.Searcher = (*DuckDuckGo)(nil)

// DuckDuckGo searches the web by scraping the DuckDuckGo HTML results page.
type DuckDuckGo struct {
	client     *http.Client
	endpoint   string
	maxResults int
}

// SearchOption configures a DuckDuckGo searcher.
type SearchOption func(*DuckDuckGo)

// WithEndpoint overrides the search endpoint.
func WithEndpoint(endpoint string) SearchOption {
	return func(d *DuckDuckGo) {
		d.endpoint = endpoint
	}
}

// WithMaxResults sets the maximum number of results returned.
func WithMaxResults(n int) SearchOption {
	return func(d *DuckDuckGo) {
		if n > 0 {
			d.maxResults = n
		}
	}
}

// NewDuckDuckGo creates a DuckDuckGo searcher.
// If client is nil, http.DefaultClient is used.
func NewDuckDuckGo(client *http.Client, opts ...SearchOption) *DuckDuckGo {
	if client == nil {
		client = http.DefaultClient
	}
	d := &DuckDuckGo{
		client:     client,
		endpoint:   DefaultSearchEndpoint,
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Search returns results in page order. Ads are skipped.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]docprimer.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, docprimer.Errorf(docprimer.EINVALID, "search query required")
	}

	searchURL := d.endpoint + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for search %q", resp.StatusCode, query)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxSearchBody))
	if err != nil {
		return nil, docprimer.Errorf(docprimer.EINVALID, "failed to parse search results: %v", err)
	}

	return parseResults(doc, d.maxResults), nil
}

func parseResults(doc *goquery.Document, limit int) []docprimer.SearchResult {
	results := []docprimer.SearchResult{}
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.HasClass("result--ad") {
			return true
		}

		anchor := sel.Find("a.result__a").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return true
		}
		link := unwrapRedirect(href)
		title := strings.TrimSpace(anchor.Text())
		if link == "" || title == "" {
			return true
		}

		results = append(results, docprimer.SearchResult{
			Title:       title,
			Link:        link,
			Description: strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
		})
		return len(results) < limit
	})
	return results
}

// unwrapRedirect returns the target of a DuckDuckGo redirect link, or href
// unchanged when it is not one.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		u.Scheme = "https"
		return u.String()
	}
	return href
}
