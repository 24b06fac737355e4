package signature

import (
	"strings"

	"github.com/safeharbor-labs/vidguard/pkg/evidence"
	"github.com/safeharbor-labs/vidguard/pkg/textnorm"
)

// MaxBlockLen caps the text length tested per evidence block. Transcripts
// can run to hundreds of kilobytes; truncating bounds the worst-case cost
// of regex matching against a hostile block.
const MaxBlockLen = 8 * 1024

// Match tests every signature against every evidence block. Matching is
// case-insensitive over normalized text. Multiple triggers of the same
// signature firing within one block collapse into a single Match; the same
// signature firing in two different blocks yields two, because provenance
// differs. Pure function: an empty repository or empty input returns an
// empty result, never an error.
func (r *Repository) Match(blocks []evidence.Unit) []Match {
	r.mu.RLock()
	sigs := r.signatures
	r.mu.RUnlock()

	var matches []Match
	for _, block := range blocks {
		text := block.Text
		if len(text) > MaxBlockLen {
			text = text[:MaxBlockLen]
		}
		folded := textnorm.Fold(text)
		if folded == "" {
			continue
		}
		for _, sig := range sigs {
			excerpt, ok := sig.test(folded)
			if !ok {
				continue
			}
			matches = append(matches, Match{
				SignatureID: sig.ID,
				Category:    sig.Category,
				Severity:    sig.Severity,
				Message:     sig.Message,
				Excerpt:     excerpt,
				Source:      block.Source,
				Weight:      block.Weight,
			})
		}
	}
	return matches
}

// test returns the first trigger excerpt found in folded text, honoring
// exclusion phrases. One hit is enough per block.
func (s *Signature) test(folded string) (string, bool) {
	excerpt := ""
	for _, t := range s.Triggers {
		if containsPhrase(folded, t) {
			excerpt = t
			break
		}
	}
	if excerpt == "" {
		for _, p := range s.Patterns {
			if loc := p.FindString(folded); loc != "" {
				excerpt = loc
				break
			}
		}
	}
	if excerpt == "" {
		return "", false
	}
	// Exclusions suppress matches in context that defuses the trigger
	// ("never mix bleach and ammonia" is a warning, not advice).
	for _, ex := range s.Exclusions {
		if containsPhrase(folded, ex) {
			return "", false
		}
	}
	return excerpt, true
}

// containsPhrase does a plain substring check; both sides are already
// lowercased by the caller.
func containsPhrase(haystack, needle string) bool {
	return needle != "" && strings.Contains(haystack, needle)
}
