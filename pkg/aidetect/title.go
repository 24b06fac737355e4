package aidetect

import (
	"regexp"

	"github.com/safeharbor-labs/vidguard/pkg/evidence"
	"github.com/safeharbor-labs/vidguard/pkg/textnorm"
)

// Title phrasings that creators of synthetic content use as a wink to the
// audience. A self-declared AI title is a moderate signal on its own.
var titleAIPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(doesn'?t|does not|don'?t) exist\b`),
	regexp.MustCompile(`\b(isn'?t|is not|not) real\b`),
	regexp.MustCompile(`\bai[ -]generated\b`),
	regexp.MustCompile(`\bmade (with|by|using) ai\b`),
	regexp.MustCompile(`\b100% ai\b`),
	regexp.MustCompile(`\bno humans? (were|was) (involved|harmed in the making)\b`),
}

type titlePatternDetector struct{}

func (d *titlePatternDetector) Name() string { return DetectorTitlePattern }

func (d *titlePatternDetector) Evaluate(b *evidence.Bundle) *Signal {
	title := textnorm.Fold(b.Metadata.Title)
	if title == "" {
		return nil
	}
	for _, p := range titleAIPatterns {
		if m := p.FindString(title); m != "" {
			return &Signal{
				Detector:   DetectorTitlePattern,
				Confidence: 0.5,
				Evidence:   map[string]string{"phrase": m, "title": b.Metadata.Title},
			}
		}
	}
	return nil
}
