// Package analysis ties the signature matcher, the heuristic detectors,
// and the scoring engine together into a single pass over an evidence
// bundle.
package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/safeharbor-labs/vidguard/pkg/aidetect"
	"github.com/safeharbor-labs/vidguard/pkg/evidence"
	"github.com/safeharbor-labs/vidguard/pkg/scoring"
	"github.com/safeharbor-labs/vidguard/pkg/signature"
)

// Result is the complete outcome for one content item. It is what gets
// cached, served, and rendered.
type Result struct {
	ID           string                            `json:"id"`
	Key          string                            `json:"key"`
	SafetyScore  int                               `json:"safety_score"`
	Warnings     []scoring.Warning                 `json:"warnings"`
	Categories   map[string]scoring.CategoryResult `json:"categories"`
	AIGenerated  bool                              `json:"ai_generated"`
	AIConfidence float64                           `json:"ai_confidence"`
	AISignals    []aidetect.Signal                 `json:"ai_signals,omitempty"`
	Sources      []string                          `json:"sources"`
	Summary      string                            `json:"summary"`
	ComputedAt   time.Time                         `json:"computed_at"`
}

// Analyzer runs the full classification pipeline. Safe for concurrent
// use: the repository handles its own locking and everything else here
// is stateless.
type Analyzer struct {
	Signatures *signature.Repository
	Detectors  []aidetect.Detector
	Scorer     *scoring.Engine
}

// New returns an analyzer with the standard detector registry and
// production scoring weights.
func New(repo *signature.Repository) *Analyzer {
	return &Analyzer{
		Signatures: repo,
		Detectors:  aidetect.Registry(),
		Scorer:     scoring.NewEngine(),
	}
}

// Analyze classifies one evidence bundle. It never fails: missing
// sources degrade the score fusion rather than aborting.
func (a *Analyzer) Analyze(b *evidence.Bundle) *Result {
	matches := a.Signatures.Match(b.Units)
	ai := aidetect.Evaluate(a.Detectors, b)
	score, warnings, categories := a.Scorer.Score(matches, ai, b.Sources)

	sources := make([]string, 0, len(b.Sources))
	for _, s := range b.Sources {
		sources = append(sources, string(s))
	}

	return &Result{
		ID:           uuid.NewString(),
		Key:          b.Key,
		SafetyScore:  score,
		Warnings:     warnings,
		Categories:   categories,
		AIGenerated:  ai.AIGenerated,
		AIConfidence: ai.AIConfidence,
		AISignals:    ai.Signals,
		Sources:      sources,
		Summary:      summarize(b, score, warnings, ai),
		ComputedAt:   time.Now().UTC(),
	}
}

// summarize renders the one-line human summary shown in CLI output and
// API responses.
func summarize(b *evidence.Bundle, score int, warnings []scoring.Warning, ai aidetect.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Safety score %d/100", score)

	switch n := len(warnings); n {
	case 0:
		sb.WriteString(", no warnings")
	case 1:
		sb.WriteString(", 1 warning")
	default:
		fmt.Fprintf(&sb, ", %d warnings", n)
	}

	if b.Has(evidence.SourceTranscript) {
		sb.WriteString("; transcript analyzed")
	} else {
		sb.WriteString("; no transcript available")
	}
	if n := len(b.Comments); n > 0 {
		fmt.Fprintf(&sb, "; %d comments reviewed", n)
	}

	if ai.Override != nil {
		sb.WriteString("; CRITICAL child safety flag")
	}
	if ai.AIGenerated {
		fmt.Fprintf(&sb, "; likely AI-generated (%.0f%% confidence)", ai.AIConfidence*100)
	}
	return sb.String()
}
