// Package aidetect holds the heuristic detectors that flag AI-generated
// content from metadata alone. Each detector is an independent pure check
// over the gathered evidence; the registry is a fixed list built at
// startup, so adding or removing a detector is a compile-time decision.
package aidetect

import (
	"github.com/safeharbor-labs/vidguard/pkg/evidence"
)

// Detector names, also used as warning evidence labels.
const (
	DetectorTitlePattern   = "title_pattern"
	DetectorHashtagCount   = "hashtag_count"
	DetectorChannelName    = "channel_name"
	DetectorImpossible     = "impossible_content"
	DetectorDangerousCombo = "dangerous_combination"
)

// Signal is one detector's positive finding. Confidence is in [0,1];
// Evidence carries label/value pairs for explainability.
type Signal struct {
	Detector   string
	Confidence float64
	Evidence   map[string]string
}

// Detector is one heuristic check. Evaluate returns nil when the check
// does not fire.
type Detector interface {
	Name() string
	Evaluate(b *evidence.Bundle) *Signal
}

// Registry returns the production detector set in evaluation order.
// DangerousCombination is last: it is a safety override, not an AI signal,
// and Aggregate treats it separately.
func Registry() []Detector {
	return []Detector{
		&titlePatternDetector{},
		&hashtagCountDetector{},
		&channelNameDetector{},
		&impossibleContentDetector{},
		&dangerousComboDetector{},
	}
}

// Result is the aggregated outcome over all detectors.
type Result struct {
	AIGenerated  bool
	AIConfidence float64
	Signals      []Signal // AI signals that fired (override excluded)
	Override     *Signal  // DangerousCombination finding, if any
}

// Evaluate runs every detector and aggregates: the item is flagged as
// AI-generated iff the maximum confidence among the AI detectors reaches
// 0.5, and AIConfidence is that maximum. The dangerous-combination
// override is surfaced separately and never sets AIGenerated.
func Evaluate(detectors []Detector, b *evidence.Bundle) Result {
	var res Result
	for _, d := range detectors {
		sig := d.Evaluate(b)
		if sig == nil {
			continue
		}
		if sig.Detector == DetectorDangerousCombo {
			res.Override = sig
			continue
		}
		res.Signals = append(res.Signals, *sig)
		if sig.Confidence > res.AIConfidence {
			res.AIConfidence = sig.Confidence
		}
	}
	res.AIGenerated = res.AIConfidence >= 0.5
	return res
}
