package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents removes combining marks ("Pôrto" -> "Porto").
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeKey folds a free-form name into an aggregation key: accents
// stripped, uppercased, whitespace collapsed to single spaces. It is idempotent.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(StripAccents(s))), " ")
}

// NormalizeRouteName is the bucket key for a route display name.
func NormalizeRouteName(name string) string {
	return NormalizeKey(name)
}

// RouteNamesMatch reports whether two route names refer to the same route:
// equal after normalization, or one contained in the other.
func RouteNamesMatch(a, b string) bool {
	ka, kb := NormalizeRouteName(a), NormalizeRouteName(b)
	if ka == "" || kb == "" {
		return false
	}
	return ka == kb || strings.Contains(ka, kb) || strings.Contains(kb, ka)
}
