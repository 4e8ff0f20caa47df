// Package readability extracts the main article of a search result page
// with go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/docprimer"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements docprimer.Extractor at compile time.
var _ docprimer.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct {
	pageURL *url.URL
}

// NewExtractor creates a new Extractor. If baseURL is non-empty, relative
// links in the extracted content are resolved against it.
func NewExtractor(baseURL string) (*Extractor, error) {
	e := &Extractor{}
	if baseURL == "" {
		return e, nil
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, docprimer.Errorf(docprimer.EINVALID, "invalid base URL: %v", err)
	}
	e.pageURL = u
	return e, nil
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docprimer.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docprimer.Errorf(docprimer.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), e.pageURL)
	if err != nil {
		return nil, err
	}

	return &docprimer.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
