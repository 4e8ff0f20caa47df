// Package fs provides the file-based document corpus.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docprimer"
)

// Ext is the corpus document extension.
const Ext = ".md"

// OutputPath derives a corpus file name from a page URL.
// The scheme and host are dropped, path separators become underscores,
// an .html suffix is removed and the corpus extension is appended.
// Example: https://docs.example.com/guide/start.html → guide_start.md
func OutputPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", docprimer.Errorf(docprimer.EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	p := strings.TrimPrefix(u.Path, "/")
	if p == "" {
		return "index" + Ext, nil
	}
	p = strings.TrimSuffix(p, ".html")
	p = strings.ReplaceAll(p, "/", "_")
	return p + Ext, nil
}

// QueryPath derives a corpus file name from search query text.
func QueryPath(query string) string {
	r := strings.NewReplacer(" ", "_", "/", "_", "\\", "_")
	return r.Replace(strings.TrimSpace(query)) + Ext
}

// FormatPage formats a crawled page as a corpus document: a URL header line
// followed by a content marker and the page body.
func FormatPage(rawURL, content string) string {
	var b strings.Builder
	b.WriteString("## URL: ")
	b.WriteString(rawURL)
	b.WriteString("\n\n### Content:\n\n")
	b.WriteString(content)
	b.WriteString("\n\n")
	return b.String()
}

// SourceURL returns the URL recorded in a corpus document header, or an
// empty string when the document has none. The header is read from the
// first non-empty line, either as written by FormatPage or as flattened
// by normalization ("URL: ...").
func SourceURL(document string) string {
	for line := range strings.SplitSeq(document, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "##"))
		if rest, ok := strings.CutPrefix(line, "URL:"); ok {
			return strings.TrimSpace(rest)
		}
		return ""
	}
	return ""
}

// Ensure Corpus implements docprimer.CorpusWriter at compile time.
var _ docprimer.CorpusWriter = (*Corpus)(nil)

// Corpus writes documents into a root directory.
// Concurrent writes to different paths are safe.
type Corpus struct {
	dir string
}

// NewCorpus creates a Corpus rooted at dir.
func NewCorpus(dir string) *Corpus {
	return &Corpus{dir: dir}
}

// Dir returns the corpus root directory.
func (c *Corpus) Dir() string {
	return c.dir
}

// WritePage writes a page to its derived output path, overwriting any
// existing file. page.OutputPath is set when empty.
func (c *Corpus) WritePage(ctx context.Context, page *docprimer.PageRecord) error {
	if page.URL == "" {
		return docprimer.Errorf(docprimer.EINVALID, "page URL required")
	}
	if page.OutputPath == "" {
		p, err := OutputPath(page.URL)
		if err != nil {
			return err
		}
		page.OutputPath = p
	}
	return c.write(page.OutputPath, FormatPage(page.URL, page.RawHTML))
}

// WriteQuery writes entries to the file keyed by query and returns its path.
func (c *Corpus) WriteQuery(ctx context.Context, query string, entries []string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", docprimer.Errorf(docprimer.EINVALID, "query required")
	}
	rel := QueryPath(query)
	if err := c.write(rel, strings.Join(entries, "")); err != nil {
		return "", err
	}
	return filepath.Join(c.dir, rel), nil
}

func (c *Corpus) write(rel, content string) error {
	fullPath := filepath.Join(c.dir, rel)

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("creating corpus directory: %w", err)
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// ListDocuments returns every file under dir whose name ends in ext,
// walking subdirectories.
func ListDocuments(dir, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
