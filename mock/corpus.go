package mock

import (
	"context"

	"github.com/fwojciec/docprimer"
)

var _ docprimer.CorpusWriter = (*CorpusWriter)(nil)

// CorpusWriter is a mock implementation of docprimer.CorpusWriter.
type CorpusWriter struct {
	WritePageFn  func(ctx context.Context, page *docprimer.PageRecord) error
	WriteQueryFn func(ctx context.Context, query string, entries []string) (string, error)
}

func (w *CorpusWriter) WritePage(ctx context.Context, page *docprimer.PageRecord) error {
	return w.WritePageFn(ctx, page)
}

func (w *CorpusWriter) WriteQuery(ctx context.Context, query string, entries []string) (string, error) {
	return w.WriteQueryFn(ctx, query, entries)
}

var _ docprimer.IndexBuilder = (*IndexBuilder)(nil)

// IndexBuilder is a mock implementation of docprimer.IndexBuilder.
type IndexBuilder struct {
	BuildFn func(ctx context.Context, dir string) (int, error)
}

func (b *IndexBuilder) Build(ctx context.Context, dir string) (int, error) {
	return b.BuildFn(ctx, dir)
}

var _ docprimer.Retriever = (*Retriever)(nil)

// Retriever is a mock implementation of docprimer.Retriever.
type Retriever struct {
	RetrieveFn func(ctx context.Context, query string, limit int) ([]*docprimer.Document, error)
}

func (r *Retriever) Retrieve(ctx context.Context, query string, limit int) ([]*docprimer.Document, error) {
	return r.RetrieveFn(ctx, query, limit)
}
