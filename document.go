package docprimer

import (
	"context"
	"time"
)

// Document is a corpus file as stored in the knowledge-base index.
type Document struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	SourceURL   string    `json:"sourceUrl"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	IndexedAt   time.Time `json:"indexedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Path == "" {
		return Errorf(EINVALID, "document path required")
	}
	if d.Content == "" {
		return Errorf(EINVALID, "document content required")
	}
	return nil
}

// IndexBuilder builds a queryable index from a corpus directory.
type IndexBuilder interface {
	// Build indexes every corpus document under dir and returns how many
	// documents were added or updated.
	Build(ctx context.Context, dir string) (int, error)
}

// Retriever returns the index documents most relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, limit int) ([]*Document, error)
}
