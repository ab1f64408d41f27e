package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	germanLower = cases.Lower(language.German)
	umlautFold  = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss", "ẞ", "ss")
)

// Fold lower-cases s the German way and spells out umlauts and ß.
func Fold(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	return umlautFold.Replace(germanLower.String(s))
}

// CleanText normalizes user supplied text to NFC and collapses inner whitespace.
func CleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// SearchKey is the folded form stored next to every verb and matched by search.
func SearchKey(s string) string {
	return strings.Join(strings.Fields(Fold(s)), " ")
}

// Slugify builds the URL identifier of a verb from its infinitive and preposition.
func Slugify(infinitive, preposition string) string {
	folded := Fold(infinitive + " " + preposition)
	var b strings.Builder
	dash := false
	for _, r := range folded {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
