package fs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docprimer"
)

// NormalizeFile cleans the document at path in place.
// The cleaned text replaces the file whenever normalization succeeds, even
// when no lines changed. On any error the file is left untouched.
func NormalizeFile(n docprimer.Normalizer, path string) docprimer.NormalizationResult {
	result := docprimer.NormalizationResult{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		result.Err = err
		return result
	}

	cleaned, diff, err := n.Normalize(string(content))
	if err != nil {
		result.Err = err
		return result
	}
	result.DiffLines = diff

	if strings.TrimSpace(cleaned) == "" {
		result.Err = docprimer.Errorf(docprimer.EINVALID, "normalized text of %s is empty", path)
		return result
	}

	if err := replaceFile(path, cleaned); err != nil {
		result.Err = err
	}
	return result
}

// replaceFile writes content to a temporary file beside path and renames it
// over path, so readers never observe a partially written document.
func replaceFile(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".normalize-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
