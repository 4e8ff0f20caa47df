package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docprimer"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Ensure Normalizer implements docprimer.Normalizer.
var _ docprimer.Normalizer = (*Normalizer)(nil)

// Normalizer strips scripts, redirect links and embedded objects from
// markdown documents and flattens what remains to plain text.
type Normalizer struct {
	md goldmark.Markdown
}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// Raw HTML must reach the DOM so it can be removed there.
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// Normalize renders text as markdown, removes non-content nodes and
// returns the flattened text together with a positional line diff.
func (n *Normalizer) Normalize(text string) (string, []docprimer.DiffLine, error) {
	var buf bytes.Buffer
	if err := n.md.Convert([]byte(text), &buf); err != nil {
		return "", nil, docprimer.Errorf(docprimer.EINVALID, "failed to render markdown: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", nil, docprimer.Errorf(docprimer.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("a[href]").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		return strings.Contains(href, "redirect")
	}).Remove()
	doc.Find("iframe, object, embed").Remove()

	flatten := func(_ int, sel *goquery.Selection) {
		sel.SetText(sel.Text())
	}
	doc.Find("p").Each(flatten)
	doc.Find("ul li").Each(flatten)

	cleaned := squeezeLines(doc.Text())
	diff := docprimer.PositionalDiff(strings.Split(text, "\n"), strings.Split(cleaned, "\n"))
	return cleaned, diff, nil
}

// squeezeLines trims every line and drops the empty ones. Leading
// indentation would otherwise turn into code blocks on the next pass.
func squeezeLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
