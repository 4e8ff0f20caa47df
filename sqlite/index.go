package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docprimer"
	"github.com/fwojciec/docprimer/fs"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ docprimer.IndexBuilder = (*Index)(nil)
	_ docprimer.Retriever    = (*Index)(nil)
)

// Index stores corpus documents in SQLite and ranks them by term frequency.
type Index struct {
	db  *DB
	now func() time.Time
}

// NewIndex creates an Index over db.
func NewIndex(db *DB) *Index {
	return &Index{db: db, now: time.Now}
}

// hashContent computes the xxHash of content as a hex string.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// Build indexes every corpus document under dir. Unchanged documents are
// skipped and documents whose files are gone are removed. It returns how
// many documents were added or updated.
func (idx *Index) Build(ctx context.Context, dir string) (int, error) {
	files, err := fs.ListDocuments(dir, fs.Ext)
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", dir, err)
	}

	present := make(map[string]bool, len(files))
	var changed int
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return changed, err
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return changed, fmt.Errorf("read %s: %w", file, err)
		}
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return changed, err
		}
		rel = filepath.ToSlash(rel)

		doc := &docprimer.Document{
			Path:      rel,
			SourceURL: fs.SourceURL(string(content)),
			Content:   string(content),
		}
		if doc.Validate() != nil {
			continue
		}
		present[rel] = true

		ok, err := idx.UpsertDocument(ctx, doc)
		if err != nil {
			return changed, fmt.Errorf("index %s: %w", rel, err)
		}
		if ok {
			changed++
		}
	}

	if err := idx.prune(ctx, present); err != nil {
		return changed, err
	}
	return changed, nil
}

// UpsertDocument stores doc keyed by its path. It reports false without
// writing when the stored content hash already matches.
func (idx *Index) UpsertDocument(ctx context.Context, doc *docprimer.Document) (bool, error) {
	if err := doc.Validate(); err != nil {
		return false, err
	}
	doc.ContentHash = hashContent(doc.Content)

	existing, err := idx.FindDocumentByPath(ctx, doc.Path)
	switch {
	case docprimer.ErrorCode(err) == docprimer.ENOTFOUND:
		doc.ID = uuid.New().String()
		doc.IndexedAt = idx.now().UTC()
		_, err = idx.db.ExecContext(ctx, `
			INSERT INTO documents (id, path, source_url, content, content_hash, indexed_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, doc.ID, doc.Path, doc.SourceURL, doc.Content, doc.ContentHash, doc.IndexedAt.Format(time.RFC3339))
		return err == nil, err
	case err != nil:
		return false, err
	}

	doc.ID = existing.ID
	if existing.ContentHash == doc.ContentHash {
		doc.IndexedAt = existing.IndexedAt
		return false, nil
	}
	doc.IndexedAt = idx.now().UTC()
	_, err = idx.db.ExecContext(ctx, `
		UPDATE documents
		SET source_url = ?, content = ?, content_hash = ?, indexed_at = ?
		WHERE id = ?
	`, doc.SourceURL, doc.Content, doc.ContentHash, doc.IndexedAt.Format(time.RFC3339), doc.ID)
	return err == nil, err
}

// FindDocumentByPath retrieves a document by its corpus path.
func (idx *Index) FindDocumentByPath(ctx context.Context, path string) (*docprimer.Document, error) {
	rows, err := idx.db.QueryContext(ctx, selectDocuments+" WHERE path = ?", path)
	if err != nil {
		return nil, err
	}
	docs, err := scanDocuments(rows)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, docprimer.Errorf(docprimer.ENOTFOUND, "document not found")
	}
	return docs[0], nil
}

// Retrieve returns up to limit documents ranked by how often the query's
// words occur in them. Documents without any occurrence are omitted and
// ties are broken by path. A limit of zero or less returns every match.
func (idx *Index) Retrieve(ctx context.Context, query string, limit int) ([]*docprimer.Document, error) {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil, docprimer.Errorf(docprimer.EINVALID, "query required")
	}

	rows, err := idx.db.QueryContext(ctx, selectDocuments)
	if err != nil {
		return nil, err
	}
	docs, err := scanDocuments(rows)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		doc   *docprimer.Document
		score int
	}
	var hits []ranked
	for _, d := range docs {
		if s := score(d.Content, terms); s > 0 {
			hits = append(hits, ranked{doc: d, score: s})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].doc.Path < hits[j].doc.Path
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]*docprimer.Document, len(hits))
	for i, h := range hits {
		out[i] = h.doc
	}
	return out, nil
}

// prune removes documents whose paths are not in present.
func (idx *Index) prune(ctx context.Context, present map[string]bool) error {
	rows, err := idx.db.QueryContext(ctx, "SELECT path FROM documents")
	if err != nil {
		return err
	}
	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return err
		}
		if !present[p] {
			stale = append(stale, p)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, p := range stale {
		if _, err := idx.db.ExecContext(ctx, "DELETE FROM documents WHERE path = ?", p); err != nil {
			return err
		}
	}
	return nil
}

const selectDocuments = "SELECT id, path, source_url, content, content_hash, indexed_at FROM documents"

func scanDocuments(rows *sql.Rows) ([]*docprimer.Document, error) {
	defer rows.Close()

	var docs []*docprimer.Document
	for rows.Next() {
		var doc docprimer.Document
		var indexedAt string
		if err := rows.Scan(&doc.ID, &doc.Path, &doc.SourceURL, &doc.Content, &doc.ContentHash, &indexedAt); err != nil {
			return nil, err
		}
		t, err := parseRFC3339(indexedAt, "indexed_at")
		if err != nil {
			return nil, err
		}
		doc.IndexedAt = t
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}
