package mock

import (
	"context"

	"github.com/fwojciec/docprimer"
)

var _ docprimer.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of docprimer.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string) ([]docprimer.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string) ([]docprimer.SearchResult, error) {
	return s.SearchFn(ctx, query)
}

var _ docprimer.Answerer = (*Answerer)(nil)

// Answerer is a mock implementation of docprimer.Answerer.
type Answerer struct {
	AnswerFn func(ctx context.Context, query, extraContext string) (string, error)
}

func (a *Answerer) Answer(ctx context.Context, query, extraContext string) (string, error) {
	return a.AnswerFn(ctx, query, extraContext)
}

var _ docprimer.MissDetector = (*MissDetector)(nil)

// MissDetector is a mock implementation of docprimer.MissDetector.
type MissDetector struct {
	IndicatesMissFn func(answer string) bool
}

func (d *MissDetector) IndicatesMiss(answer string) bool {
	return d.IndicatesMissFn(answer)
}

var _ docprimer.Augmenter = (*Augmenter)(nil)

// Augmenter is a mock implementation of docprimer.Augmenter.
type Augmenter struct {
	AugmentFn func(ctx context.Context, query string) (*docprimer.AugmentedContext, error)
}

func (a *Augmenter) Augment(ctx context.Context, query string) (*docprimer.AugmentedContext, error) {
	return a.AugmentFn(ctx, query)
}
