package policy

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// zero-width and BOM characters that OCR pipelines occasionally leak into
// extracted text.
var invisibleReplacer = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
)

// NormalizeString prepares an OCR-extracted string for validation: NFKC
// (folds full-width variants like ＠ → @), strips zero-width characters, and
// trims surrounding whitespace. Keeps length and regex checks honest against
// upstream OCR noise.
func NormalizeString(s string) string {
	s = norm.NFKC.String(s)
	s = invisibleReplacer.Replace(s)
	return strings.TrimSpace(s)
}

// countWords returns the number of whitespace-separated tokens in text.
func countWords(text string) int {
	return len(strings.Fields(text))
}
