package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify derives a URL-safe identifier: diacritics stripped, lowercased,
// non-alphanumerics collapsed into single hyphens.
func Slugify(name string) string {
	// transformers carry state, so build a fresh chain per call
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(stripMarks, name)
	if err != nil {
		s = name
	}
	// đ/Đ have no combining mark, NFD leaves them alone
	s = strings.NewReplacer("đ", "d", "Đ", "d").Replace(s)
	s = strings.ToLower(s)

	var b strings.Builder
	lastHyphen := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
