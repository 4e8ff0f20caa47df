package docprimer

import "strings"

// FormatDocuments formats documents for LLM context.
// Uses the source URL if available, falls back to the corpus path.
// Documents are separated by blank lines.
func FormatDocuments(docs []*Document) string {
	if len(docs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		header := doc.SourceURL
		if header == "" {
			header = doc.Path
		}
		parts = append(parts, "## Document: "+header+"\n"+doc.Content)
	}

	return strings.Join(parts, "\n\n")
}
