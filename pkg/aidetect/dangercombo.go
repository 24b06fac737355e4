package aidetect

import (
	"github.com/safeharbor-labs/vidguard/pkg/evidence"
	"github.com/safeharbor-labs/vidguard/pkg/textnorm"
)

// Child and dangerous-animal vocabularies. A co-occurrence is a safety
// override regardless of whether the footage is real or generated: real
// footage is an actual hazard, generated footage normalizes one. It is
// therefore surfaced as its own critical warning and kept out of the AI
// aggregate entirely.
var childKeywords = []string{
	"baby", "babies", "infant", "newborn", "toddler", "child", "kid",
	"little girl", "little boy", "crib", "stroller",
}

var dangerousAnimals = []string{
	"snake", "python", "cobra", "viper", "rattlesnake", "venomous",
	"crocodile", "alligator", "pit bull", "pitbull", "rottweiler", "wolf",
	"tiger", "lion", "bear", "scorpion", "tarantula", "macaw", "komodo",
}

type dangerousComboDetector struct{}

func (d *dangerousComboDetector) Name() string { return DetectorDangerousCombo }

func (d *dangerousComboDetector) Evaluate(b *evidence.Bundle) *Signal {
	// Title, description and transcript all count: the combination is
	// dangerous wherever it is described.
	texts := []string{b.Metadata.Title, b.Metadata.Description}
	for _, u := range b.UnitsBySource(evidence.SourceTranscript) {
		texts = append(texts, u.Text)
	}
	for _, raw := range texts {
		text := textnorm.Fold(raw)
		if text == "" {
			continue
		}
		child := firstContained(text, childKeywords)
		if child == "" {
			continue
		}
		animal := firstContained(text, dangerousAnimals)
		if animal == "" {
			continue
		}
		return &Signal{
			Detector:   DetectorDangerousCombo,
			Confidence: 1.0,
			Evidence:   map[string]string{"child": child, "animal": animal},
		}
	}
	return nil
}
