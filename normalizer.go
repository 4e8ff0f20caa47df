package docprimer

import "fmt"

// DiffLine records a line that changed during normalization.
// Diffs are positional and informational only.
type DiffLine struct {
	LineNumber int // 1-based
	NewText    string
}

// String formats the line as "Line N: text".
func (d DiffLine) String() string {
	return fmt.Sprintf("Line %d: %s", d.LineNumber, d.NewText)
}

// NormalizationResult is the outcome of normalizing one corpus file.
// When Err is nil the file at Path holds the cleaned text.
type NormalizationResult struct {
	Path      string
	DiffLines []DiffLine
	Err       error
}

// Normalizer strips non-content markup from text and flattens it.
type Normalizer interface {
	// Normalize returns the cleaned text and the lines that differ from
	// the input when compared by index.
	Normalize(text string) (cleaned string, diff []DiffLine, err error)
}

// PositionalDiff compares original and cleaned line by line by index and
// returns every position where they differ. Lines beyond the shorter of the
// two inputs are not compared.
func PositionalDiff(original, cleaned []string) []DiffLine {
	n := min(len(original), len(cleaned))
	var diff []DiffLine
	for i := 0; i < n; i++ {
		if original[i] != cleaned[i] {
			diff = append(diff, DiffLine{LineNumber: i + 1, NewText: cleaned[i]})
		}
	}
	return diff
}
