// internal/pipeline/persist.go
package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	apperrors "content-workers/internal/common/errors"
	"content-workers/internal/content"
)

// Artifact file names under the output directory.
const (
	faqFileName        = "faq.json"
	productFileName    = "product_page.json"
	comparisonFileName = "comparison_page.json"
)

// ArtifactStore serializes assembled pages as indented, Unicode-preserving
// JSON files under a configured directory.
type ArtifactStore struct {
	outputDir string
}

func NewArtifactStore(outputDir string) *ArtifactStore {
	return &ArtifactStore{outputDir: outputDir}
}

// Persist writes all three pages and returns the artifact map keyed by page
// type. Any write failure aborts the whole set.
func (a *ArtifactStore) Persist(faqPage, productPage, comparisonPage map[string]interface{}) (map[string]string, error) {
	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		return nil, apperrors.NewOutputWriteError(a.outputDir, err)
	}

	artifacts := make(map[string]string, 3)
	pages := []struct {
		key      string
		fileName string
		payload  map[string]interface{}
	}{
		{content.PageTypeFAQ, faqFileName, faqPage},
		{content.PageTypeProduct, productFileName, productPage},
		{content.PageTypeComparison, comparisonFileName, comparisonPage},
	}

	for _, page := range pages {
		path := filepath.Join(a.outputDir, page.fileName)
		if err := writeJSON(path, page.payload); err != nil {
			return nil, err
		}
		artifacts[page.key] = path
	}

	return artifacts, nil
}

func writeJSON(path string, payload map[string]interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return apperrors.NewOutputWriteError(path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return apperrors.NewOutputWriteError(path, err)
	}
	return nil
}
