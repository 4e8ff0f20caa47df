// Package trafilatura extracts the main content of a search result page
// with go-trafilatura.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/docprimer"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docprimer.Extractor at compile time.
var _ docprimer.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
// Links are kept so the converted Markdown still points at its sources.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor. If baseURL is non-empty, it is
// passed to trafilatura as the page's original URL.
func NewExtractor(baseURL string) (*Extractor, error) {
	opts := trafilatura.Options{
		EnableFallback:  true,
		IncludeLinks:    true,
		ExcludeComments: true,
	}
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, docprimer.Errorf(docprimer.EINVALID, "invalid base URL: %v", err)
		}
		opts.OriginalURL = u
	}
	return &Extractor{opts: opts}, nil
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docprimer.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docprimer.Errorf(docprimer.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		contentHTML = buf.String()
	}

	return &docprimer.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}
