package docprimer

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown, preserving hyperlinks.
	Convert(html string) (string, error)
}

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
