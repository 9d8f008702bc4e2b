package courses

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases the title, strips diacritics and collapses everything
// that is not a letter or digit into single hyphens.
func Slugify(title string) string {
	flat, _, err := transform.String(deaccent, title)
	if err != nil {
		flat = title
	}

	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(flat) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
