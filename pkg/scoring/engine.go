// Package scoring fuses signature matches and heuristic signals into a
// bounded safety score, a ranked warning list, and per-category subscores.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/safeharbor-labs/vidguard/pkg/aidetect"
	"github.com/safeharbor-labs/vidguard/pkg/evidence"
	"github.com/safeharbor-labs/vidguard/pkg/signature"
)

// Bucket is a fusion bucket: evidence sources collapse into three buckets
// for weighting because title/description/channel/hashtag share one
// provenance (the item's own metadata).
type Bucket string

const (
	BucketTranscript Bucket = "transcript"
	BucketComment    Bucket = "comment"
	BucketMetadata   Bucket = "metadata"
)

func bucketOf(src evidence.SourceType) Bucket {
	switch src {
	case evidence.SourceTranscript:
		return BucketTranscript
	case evidence.SourceComment:
		return BucketComment
	default:
		return BucketMetadata
	}
}

// Warning is one user-facing finding, ordered by severity.
type Warning struct {
	Category string             `json:"category"`
	Severity signature.Severity `json:"severity"`
	Message  string             `json:"message"`
	Evidence string             `json:"evidence,omitempty"`
	Source   string             `json:"source,omitempty"`
}

// CategoryResult is the per-category subscore, computed from raw
// unweighted matches so users see per-domain detail independent of which
// sources happened to be available.
type CategoryResult struct {
	Score   int  `json:"score"`
	Flagged bool `json:"flagged"`
}

// Severity deductions from the 100-point baseline.
var severityDeduction = map[signature.Severity]float64{
	signature.SeverityLow:      2,
	signature.SeverityMedium:   8,
	signature.SeverityHigh:     20,
	signature.SeverityCritical: 40,
}

// maxCommentWarnings bounds how many comment-derived warnings surface;
// a viral video can have hundreds of near-identical warning comments.
const maxCommentWarnings = 10

// Engine computes scores. Weight tables are fields so tests and strict
// deployments can tune the fusion without touching the fusion logic.
type Engine struct {
	// DefaultWeights applies when transcript evidence is present.
	DefaultWeights map[Bucket]float64
	// FallbackWeights applies when transcript evidence is absent:
	// community feedback carries most of the signal, metadata the rest.
	FallbackWeights map[Bucket]float64
	// CommentLikeCap bounds the provenance multiplier for one comment.
	CommentLikeCap float64
}

// NewEngine returns an engine with the production fusion weights.
func NewEngine() *Engine {
	return &Engine{
		DefaultWeights:  map[Bucket]float64{BucketTranscript: 0.6, BucketComment: 0.4},
		FallbackWeights: map[Bucket]float64{BucketComment: 0.7, BucketMetadata: 0.3},
		CommentLikeCap:  2.0,
	}
}

// Score fuses matches and heuristic results into the overall safety score,
// the sorted warning list, and category subscores. Pure: it never fails
// and never mutates its inputs.
func (e *Engine) Score(matches []signature.Match, ai aidetect.Result, sources []evidence.SourceType) (int, []Warning, map[string]CategoryResult) {
	score := e.fuse(matches, sources)
	warnings := e.warnings(matches, ai)
	categories := categorize(matches)
	return score, warnings, categories
}

// fuse computes per-bucket deductions and combines them with renormalized
// weights. The weights in use always sum to 1.0 over the buckets that
// actually contributed evidence.
func (e *Engine) fuse(matches []signature.Match, sources []evidence.SourceType) int {
	available := map[Bucket]bool{}
	for _, s := range sources {
		available[bucketOf(s)] = true
	}

	deductions := map[Bucket]float64{}
	for _, m := range matches {
		b := bucketOf(m.Source)
		d := severityDeduction[m.Severity]
		if b == BucketComment {
			d *= e.provenance(m.Weight)
		}
		deductions[b] += d
	}

	weights := e.weightsFor(available)
	if len(weights) == 0 {
		// No weighted bucket contributed; score whatever we have raw.
		total := 0.0
		for _, d := range deductions {
			total += d
		}
		return clampScore(100 - total)
	}

	fused := 0.0
	for b, w := range weights {
		bucketScore := math.Max(0, 100-deductions[b])
		fused += w * bucketScore
	}
	return clampScore(fused)
}

// weightsFor picks the weight table by transcript availability, drops
// buckets that contributed nothing, and renormalizes to 1.0.
func (e *Engine) weightsFor(available map[Bucket]bool) map[Bucket]float64 {
	table := e.DefaultWeights
	if !available[BucketTranscript] {
		table = e.FallbackWeights
	}
	picked := map[Bucket]float64{}
	sum := 0.0
	for b, w := range table {
		if available[b] {
			picked[b] = w
			sum += w
		}
	}
	if sum == 0 {
		// Weighted buckets all missing; fall back to whatever is there,
		// equally weighted.
		n := 0
		for b, ok := range available {
			if ok {
				picked[b] = 1
				n++
			}
		}
		if n == 0 {
			return nil
		}
		sum = float64(n)
	}
	for b := range picked {
		picked[b] /= sum
	}
	return picked
}

// provenance scales a comment deduction by engagement: a highly-liked
// warning comment counts for more, capped so one viral comment cannot
// dominate. effective = base * min(1 + log10(1+likes)/4, cap).
func (e *Engine) provenance(likes float64) float64 {
	if likes < 0 {
		likes = 0
	}
	mult := 1 + math.Log10(1+likes)/4
	if mult > e.CommentLikeCap {
		mult = e.CommentLikeCap
	}
	return mult
}

// warnings converts matches and heuristic findings into the sorted list:
// severity descending, then insertion order (sort is stable).
func (e *Engine) warnings(matches []signature.Match, ai aidetect.Result) []Warning {
	var out []Warning
	commentCount := 0
	for _, m := range matches {
		if m.Source == evidence.SourceComment {
			if commentCount >= maxCommentWarnings {
				continue
			}
			commentCount++
		}
		out = append(out, Warning{
			Category: m.Category,
			Severity: m.Severity,
			Message:  m.Message,
			Evidence: m.Excerpt,
			Source:   string(m.Source),
		})
	}

	if ai.Override != nil {
		out = append(out, Warning{
			Category: "childcare",
			Severity: signature.SeverityCritical,
			Message: fmt.Sprintf("Content pairs a child with a dangerous animal (%s near %s)",
				ai.Override.Evidence["child"], ai.Override.Evidence["animal"]),
			Evidence: ai.Override.Evidence["child"] + " + " + ai.Override.Evidence["animal"],
			Source:   ai.Override.Detector,
		})
	}

	if ai.AIGenerated {
		best := bestSignal(ai.Signals)
		w := Warning{
			Category: "ai-content",
			Severity: signature.SeverityHigh,
			Message:  "Content appears to be AI-generated",
		}
		if best != nil {
			w.Evidence = signalEvidence(best)
			w.Source = best.Detector
		}
		out = append(out, w)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() > out[j].Severity.Rank()
	})
	return out
}

func bestSignal(signals []aidetect.Signal) *aidetect.Signal {
	var best *aidetect.Signal
	for i := range signals {
		if best == nil || signals[i].Confidence > best.Confidence {
			best = &signals[i]
		}
	}
	return best
}

func signalEvidence(s *aidetect.Signal) string {
	// Evidence maps are tiny; render deterministic label=value pairs.
	keys := make([]string, 0, len(s.Evidence))
	for k := range s.Evidence {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		if out != "" {
			out += " "
		}
		out += k + "=" + s.Evidence[k]
	}
	return out
}

// categorize computes per-category subscores from raw matches: 100 minus
// the unweighted deductions attributable to that category, floored at 0.
func categorize(matches []signature.Match) map[string]CategoryResult {
	totals := map[string]float64{}
	for _, m := range matches {
		totals[m.Category] += severityDeduction[m.Severity]
	}
	out := make(map[string]CategoryResult, len(totals))
	for cat, d := range totals {
		out[cat] = CategoryResult{Score: clampScore(100 - d), Flagged: true}
	}
	return out
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}
