package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentReplacer strips the accented Latin letters players type most often.
var accentReplacer = strings.NewReplacer(
	"à", "a",
	"é", "e",
	"è", "e",
	"ê", "e",
	"ë", "e",
	"î", "i",
	"ï", "i",
	"ô", "o",
	"ö", "o",
	"ù", "u",
	"û", "u",
	"ü", "u",
	"ÿ", "y",
	"ç", "c",
)

var ligatureReplacer = strings.NewReplacer(
	"œ", "oe",
	"æ", "ae",
)

// NormalizeInput trims, lowercases, collapses internal whitespace and replaces
// the fixed set of accented letters with their ASCII base.
func NormalizeInput(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	return accentReplacer.Replace(s)
}

// Fold is the stricter form used for word list membership: every combining
// mark is removed after canonical decomposition, so any accent folds to its
// base letter, and common ligatures are expanded.
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	s = ligatureReplacer.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return accentReplacer.Replace(s)
	}
	return folded
}

// IsBlank reports whether s holds nothing but whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
