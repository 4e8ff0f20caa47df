package docprimer

import "context"

// PageRecord is one fetched page on its way to the corpus.
// It is written to disk immediately after the fetch and then discarded.
type PageRecord struct {
	URL        string
	RawHTML    string
	OutputPath string // relative to the corpus root
	Err        error
}

// CrawlResult summarizes a completed crawl.
type CrawlResult struct {
	Visited int
	Written int
	Failed  int
	Bytes   int // raw HTML written
}

// CorpusWriter persists documents to the corpus directory.
type CorpusWriter interface {
	// WritePage writes a crawled page to its derived output path,
	// creating parent directories and overwriting any previous file.
	WritePage(ctx context.Context, page *PageRecord) error

	// WriteQuery writes search-derived entries to a single file keyed by
	// the query text and returns the file path.
	WriteQuery(ctx context.Context, query string, entries []string) (string, error)
}
