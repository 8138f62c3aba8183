package domain

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Manual is a catalog entry. ID must equal the manual_id stamped on the
// manual's chunks; nothing checks this, and a mismatch yields empty retrieval.
type Manual struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	PDFURL string `json:"pdf_url"`
}

// ManualMetadata is derived from a manual's file name at ingestion.
type ManualMetadata struct {
	ID        string
	Label     string
	ProductID string
}

var (
	versionTag  = regexp.MustCompile(`(?i)[vr]\d+\.\d+`)
	documentNum = regexp.MustCompile(`\d+-\d+-\d+[-_]`)
	nonSlug     = regexp.MustCompile(`[^a-z0-9]+`)
)

// CleanFilename turns a manual file name into a readable label by
// stripping the extension, version tags, and document numbers.
func CleanFilename(filename string) string {
	name := strings.Replace(filename, ".pdf", "", 1)
	name = versionTag.ReplaceAllString(name, "")
	name = documentNum.ReplaceAllString(name, "")
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// ExtractManualMetadata derives the manual ID, label, and product family
// from a file name. The product family is the label's first word.
func ExtractManualMetadata(filename string) ManualMetadata {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	label := CleanFilename(stem)
	if label == "" {
		label = stem
	}

	id := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(label), "-"), "-")

	var product string
	if words := strings.Fields(label); len(words) > 0 {
		product = words[0]
	}

	return ManualMetadata{ID: id, Label: label, ProductID: product}
}
