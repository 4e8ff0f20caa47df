package mock

import "github.com/fwojciec/docprimer"

var _ docprimer.Converter = (*Converter)(nil)

// Converter is a mock implementation of docprimer.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ docprimer.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docprimer.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docprimer.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docprimer.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ docprimer.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of docprimer.Normalizer.
type Normalizer struct {
	NormalizeFn func(text string) (string, []docprimer.DiffLine, error)
}

func (n *Normalizer) Normalize(text string) (string, []docprimer.DiffLine, error) {
	return n.NormalizeFn(text)
}
