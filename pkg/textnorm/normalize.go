// Package textnorm normalizes evidence text before pattern matching.
// Titles and comments scraped from the wild routinely carry zero-width
// characters, fullwidth letters, and other Unicode tricks that would let
// trivially obfuscated text slip past case-insensitive substring checks.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// invisible runes commonly used to break up trigger phrases.
var invisibles = map[rune]bool{
	'\u200b': true, // zero-width space
	'\u200c': true, // zero-width non-joiner
	'\u200d': true, // zero-width joiner
	'\u2060': true, // word joiner
	'\ufeff': true, // BOM / zero-width no-break space
	'\u00ad': true, // soft hyphen
	'\u180e': true, // mongolian vowel separator
}

// typographic punctuation folded onto the ASCII forms the pattern
// vocabularies use. NFKC leaves these alone.
var asciiPunct = map[rune]rune{
	'‘': '\'', // left single quotation mark
	'’': '\'', // right single quotation mark
	'ʼ': '\'', // modifier letter apostrophe
	'“': '"',  // left double quotation mark
	'”': '"',  // right double quotation mark
}

// stripInvisibles removes zero-width and formatting runes and folds
// typographic punctuation to ASCII.
func stripInvisibles(s string) string {
	return strings.Map(func(r rune) rune {
		if invisibles[r] || unicode.Is(unicode.Cf, r) {
			return -1
		}
		if a, ok := asciiPunct[r]; ok {
			return a
		}
		return r
	}, s)
}

// Fold returns text normalized for matching: NFKC-folded (collapses
// fullwidth and mathematical-alphabet homoglyphs onto ASCII), stripped of
// invisible runes, and lowercased. The result is suitable for substring
// and regex matching; it is never shown to users.
func Fold(text string) string {
	if text == "" {
		return ""
	}
	cleaned := stripInvisibles(text)
	folded, _, err := transform.String(norm.NFKC, cleaned)
	if err != nil {
		// NFKC never fails on valid UTF-8; fall back to the cleaned input.
		folded = cleaned
	}
	return strings.ToLower(folded)
}

// Changed reports whether folding would alter the text, ignoring case.
// Useful for flagging inputs that relied on Unicode obfuscation.
func Changed(text string) bool {
	return Fold(text) != strings.ToLower(text)
}
