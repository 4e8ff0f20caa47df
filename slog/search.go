package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docprimer"
)

var (
	_ docprimer.Searcher = (*LoggingSearcher)(nil)
	_ docprimer.Answerer = (*LoggingAnswerer)(nil)
)

// LoggingSearcher wraps a Searcher with logging.
type LoggingSearcher struct {
	next   docprimer.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next docprimer.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the result count.
func (s *LoggingSearcher) Search(ctx context.Context, query string) (results []docprimer.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", query,
			"results", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query)
}

// LoggingAnswerer wraps an Answerer with logging.
type LoggingAnswerer struct {
	next   docprimer.Answerer
	logger *slog.Logger
}

// NewLoggingAnswerer creates a new LoggingAnswerer.
func NewLoggingAnswerer(next docprimer.Answerer, logger *slog.Logger) *LoggingAnswerer {
	return &LoggingAnswerer{next: next, logger: logger}
}

// Answer delegates to the wrapped answerer and logs sizes, not content.
func (a *LoggingAnswerer) Answer(ctx context.Context, query, extraContext string) (answer string, err error) {
	defer func(begin time.Time) {
		a.logger.Info("answer",
			"query", query,
			"context_chars", len(extraContext),
			"answer_chars", len(answer),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Answer(ctx, query, extraContext)
}
