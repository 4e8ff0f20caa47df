package docprimer

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// ImageExtensions lists the asset extensions a crawl never enqueues.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp"}

// Scope decides which discovered links are eligible for a crawl frontier.
// A link is in scope when it matches the domain+path-prefix pattern and
// does not point at an image asset.
type Scope struct {
	Pattern *regexp.Regexp
}

// NewScope compiles pattern into a Scope.
func NewScope(pattern string) (*Scope, error) {
	if pattern == "" {
		return nil, Errorf(EINVALID, "scope pattern required")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid scope pattern %q: %v", pattern, err)
	}
	return &Scope{Pattern: re}, nil
}

// Match reports whether rawURL may be enqueued.
// A nil Scope matches nothing.
func (s *Scope) Match(rawURL string) bool {
	if s == nil || s.Pattern == nil {
		return false
	}
	if IsImage(rawURL) {
		return false
	}
	loc := s.Pattern.FindStringIndex(rawURL)
	return loc != nil && loc[0] == 0
}

// String returns the scope pattern.
func (s *Scope) String() string {
	if s == nil || s.Pattern == nil {
		return ""
	}
	return s.Pattern.String()
}

// IsImage reports whether rawURL ends in a known image extension.
func IsImage(rawURL string) bool {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
