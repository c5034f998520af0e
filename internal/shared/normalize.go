package shared

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parentheticalRe = regexp.MustCompile(`\s*[\(\[][^\)\]]*[\)\]]`)
	separatorRe     = regexp.MustCompile(`[/\\_]+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// diacriticFolder strips combining marks after NFD decomposition, so
// "Motörhead" and "Motorhead" normalize to the same name.
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldDiacritics removes diacritical marks from s. Returns s unchanged if the
// transform fails (never the empty string for valid input).
func FoldDiacritics(s string) string {
	folded, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		return s
	}
	return folded
}

// NormalizeTitle strips parenthetical and bracketed asides from a song title,
// collapses slashes and runs of whitespace, and trims the result. Casing is
// preserved for display; use [TitleKey] for identity comparisons.
func NormalizeTitle(title string) string {
	t := parentheticalRe.ReplaceAllString(title, " ")
	t = separatorRe.ReplaceAllString(t, " ")
	t = whitespaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// TitleKey returns the deduplication key for a song title: the lower-cased
// normalized form. "Paint It Black (Live)" and "paint it black" share a key.
func TitleKey(title string) string {
	return strings.ToLower(NormalizeTitle(title))
}

// NormalizeName normalizes an artist or track name for matching: diacritics
// folded, parentheticals stripped, separators collapsed, lower-cased.
// Idempotent: NormalizeName(NormalizeName(s)) == NormalizeName(s).
func NormalizeName(name string) string {
	return strings.ToLower(NormalizeTitle(FoldDiacritics(name)))
}

// NormalizeTrackKey builds a stable cache/lookup key for an (artist, title) pair.
func NormalizeTrackKey(artist, title string) string {
	return NormalizeName(artist) + "|" + NormalizeName(title)
}
