// Package augment supplements knowledge-base answers with live search
// results from the documentation site.
package augment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/docprimer"
	"golang.org/x/sync/errgroup"
)

// Ensure Augmenter implements docprimer.Augmenter.
var _ docprimer.Augmenter = (*Augmenter)(nil)

// Augmenter searches the documentation site, fetches the top results and
// turns them into normalized context text.
type Augmenter struct {
	Searcher   docprimer.Searcher
	Fetcher    docprimer.Fetcher
	Extractor  docprimer.Extractor // optional
	Converter  docprimer.Converter
	Normalizer docprimer.Normalizer
	Corpus     docprimer.CorpusWriter

	// Site restricts the search with a "site:" operator when set.
	Site string

	// TopN is the number of results fetched. Zero means docprimer.DefaultTopN.
	TopN int

	// Budget is the maximum context length in characters.
	// Zero means docprimer.DefaultBudget.
	Budget int

	Logger *slog.Logger
}

// Augment runs the search-fetch-convert-normalize pipeline for query.
// It returns docprimer.ErrNoResults when the search finds nothing or none
// of the top results could be fetched. Failed fetches are skipped.
func (a *Augmenter) Augment(ctx context.Context, query string) (*docprimer.AugmentedContext, error) {
	if strings.TrimSpace(query) == "" {
		return nil, docprimer.Errorf(docprimer.EINVALID, "query required")
	}
	logger := a.logger().With("query", query)

	results, err := a.Searcher.Search(ctx, a.searchQuery(query))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if len(results) == 0 {
		logger.Info("no search results")
		return nil, docprimer.ErrNoResults
	}

	topN := a.TopN
	if topN <= 0 {
		topN = docprimer.DefaultTopN
	}
	results = results[:min(topN, len(results))]

	entries := a.buildEntries(ctx, results, logger)
	if len(entries) == 0 {
		logger.Info("no search results could be fetched", "results", len(results))
		return nil, docprimer.ErrNoResults
	}

	path, err := a.Corpus.WriteQuery(ctx, query, entries)
	if err != nil {
		return nil, fmt.Errorf("write query results: %w", err)
	}

	cleaned := make([]string, 0, len(entries))
	for _, entry := range entries {
		text, _, err := a.Normalizer.Normalize(entry)
		if err != nil {
			logger.Warn("normalize entry failed", "error", err)
			continue
		}
		cleaned = append(cleaned, text)
	}

	budget := a.Budget
	if budget <= 0 {
		budget = docprimer.DefaultBudget
	}
	text := strings.Join(cleaned, "\n\n")
	truncated := Truncate(text, budget)

	logger.Info("context gathered",
		"entries", len(cleaned),
		"path", path,
		"chars", utf8.RuneCountInString(truncated),
	)

	return &docprimer.AugmentedContext{
		Query:     query,
		Text:      truncated,
		Path:      path,
		Results:   len(cleaned),
		Truncated: len(truncated) < len(text),
	}, nil
}

func (a *Augmenter) searchQuery(query string) string {
	if a.Site == "" {
		return query
	}
	return "site:" + a.Site + " " + query
}

// buildEntries fetches results concurrently and returns the entries of the
// successful ones in result order. Entries are numbered by result position.
func (a *Augmenter) buildEntries(ctx context.Context, results []docprimer.SearchResult, logger *slog.Logger) []string {
	entries := make([]string, len(results))

	var g errgroup.Group
	for i, r := range results {
		g.Go(func() error {
			markdown, err := a.convert(ctx, r.Link)
			if err != nil {
				logger.Warn("fetch search result failed", "url", r.Link, "error", err)
				return nil
			}
			entries[i] = FormatEntry(i+1, r, markdown)
			return nil
		})
	}
	_ = g.Wait()

	out := entries[:0]
	for _, e := range entries {
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

func (a *Augmenter) convert(ctx context.Context, link string) (string, error) {
	html, err := a.Fetcher.Fetch(ctx, link)
	if err != nil {
		return "", err
	}
	if a.Extractor != nil {
		if extracted, err := a.Extractor.Extract(html); err == nil && extracted.ContentHTML != "" {
			html = extracted.ContentHTML
		}
	}
	return a.Converter.Convert(html)
}

func (a *Augmenter) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// FormatEntry renders one search result and its converted content.
func FormatEntry(n int, r docprimer.SearchResult, markdown string) string {
	return fmt.Sprintf("## %d. %s\n*%s*\n[Source](%s)\n\n```\n%s\n```\n\n", n, r.Title, r.Description, r.Link, markdown)
}

// Truncate returns the first n characters of s, or s itself when it is
// not longer than n.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
