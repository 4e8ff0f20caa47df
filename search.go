package docprimer

import "context"

// NoResultsMessage is shown to the user when a live search finds nothing.
const NoResultsMessage = "No relevant web search results found."

// ErrNoResults is returned when a search yields no results.
// An empty search is an expected outcome, so callers match it with
// errors.Is rather than treating it as a failure.
var ErrNoResults = &Error{Code: ENORESULTS, Message: NoResultsMessage}

// SearchResult is a single web search hit.
type SearchResult struct {
	Title       string
	Link        string
	Description string
}

// Searcher performs free-text web searches.
type Searcher interface {
	// Search returns results ordered by relevance.
	// An empty slice with a nil error means the search found nothing.
	Search(ctx context.Context, query string) ([]SearchResult, error)
}
