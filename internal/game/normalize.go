package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks (Arabic tashkeel included) so answer
// comparison is diacritic-insensitive.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeAnswer prepares a submitted answer (or letter) for comparison:
// trim, strip diacritics, lower-case.
func normalizeAnswer(s string) string {
	s = strings.TrimSpace(s)
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	return strings.ToLower(s)
}
