package augment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/docprimer"
)

// Ensure PhraseDetector implements docprimer.MissDetector.
var _ docprimer.MissDetector = (*PhraseDetector)(nil)

// PhraseDetector reports a miss when an answer contains one of its phrases.
// Matching is case-insensitive.
type PhraseDetector struct {
	Phrases []string
}

// NewPhraseDetector creates a PhraseDetector.
// If no phrases are given, docprimer.DefaultMissPhrases is used.
func NewPhraseDetector(phrases ...string) *PhraseDetector {
	if len(phrases) == 0 {
		phrases = docprimer.DefaultMissPhrases
	}
	return &PhraseDetector{Phrases: phrases}
}

// IndicatesMiss reports whether answer contains any miss phrase.
func (d *PhraseDetector) IndicatesMiss(answer string) bool {
	answer = strings.ToLower(answer)
	for _, p := range d.Phrases {
		if p != "" && strings.Contains(answer, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// Responder answers a question and falls back to live search context when
// the knowledge base has nothing relevant.
type Responder struct {
	Answerer  docprimer.Answerer
	Augmenter docprimer.Augmenter
	Detector  docprimer.MissDetector

	// Notify receives user-facing status messages. Optional.
	Notify func(msg string)
}

// Respond returns the answer for query. When the first answer indicates a
// miss, it gathers live context and asks again. If the search finds
// nothing the first answer is returned.
func (r *Responder) Respond(ctx context.Context, query string) (string, error) {
	answer, err := r.Answerer.Answer(ctx, query, "")
	if err != nil {
		return "", err
	}
	if r.Augmenter == nil || r.Detector == nil || !r.Detector.IndicatesMiss(answer) {
		return answer, nil
	}

	r.notify(docprimer.MissNotice)
	augmented, err := r.Augmenter.Augment(ctx, query)
	if errors.Is(err, docprimer.ErrNoResults) {
		r.notify(docprimer.NoResultsMessage)
		return answer, nil
	} else if err != nil {
		return "", fmt.Errorf("augment: %w", err)
	}

	return r.Answerer.Answer(ctx, query, augmented.Text)
}

func (r *Responder) notify(msg string) {
	if r.Notify != nil {
		r.Notify(msg)
	}
}
