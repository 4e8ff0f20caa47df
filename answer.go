package docprimer

import "context"

// MissNotice is shown to the user before falling back to a live search.
const MissNotice = "Data not found in index. Checking the live documentation site for latest data..."

// AugmentedContext is the normalized, truncated text gathered from live
// search results for one fallback resolution.
type AugmentedContext struct {
	Query     string
	Text      string
	Path      string // corpus file holding the raw entries
	Results   int    // entries that made it into Text
	Truncated bool
}

// Answerer answers questions against the knowledge base.
type Answerer interface {
	// Answer responds to query. extraContext, when non-empty, is injected
	// into the prompt alongside whatever the knowledge base retrieves.
	Answer(ctx context.Context, query string, extraContext string) (string, error)
}

// MissDetector decides whether an answer indicates the knowledge base had
// nothing relevant.
type MissDetector interface {
	IndicatesMiss(answer string) bool
}

// Augmenter gathers live context for a query the knowledge base missed.
type Augmenter interface {
	// Augment returns ErrNoResults when the search finds nothing usable.
	Augment(ctx context.Context, query string) (*AugmentedContext, error)
}

// ContextualQuestion appends live context to a question for a follow-up answer.
func ContextualQuestion(query, extraContext string) string {
	if extraContext == "" {
		return query
	}
	return query + "\nRelevant Context: " + extraContext
}
