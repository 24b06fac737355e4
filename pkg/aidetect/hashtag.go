package aidetect

import (
	"strings"

	"github.com/safeharbor-labs/vidguard/pkg/evidence"
)

// aiHashtags is the known AI-content tag vocabulary: generic AI tags plus
// the popular generation tools. Tool names are strong signals on their own
// but the detector still requires two distinct tags, because a single tag
// is routinely added to human footage for reach.
var aiHashtags = map[string]bool{
	"#ai":              true,
	"#aiart":           true,
	"#aivideo":         true,
	"#aigenerated":     true,
	"#aianimals":       true,
	"#generativeai":    true,
	"#midjourney":      true,
	"#dalle":           true,
	"#stablediffusion": true,
	"#sora":            true,
	"#runway":          true,
	"#runwayml":        true,
	"#pika":            true,
	"#kling":           true,
	"#veo":             true,
	"#deepfake":        true,
}

type hashtagCountDetector struct{}

func (d *hashtagCountDetector) Name() string { return DetectorHashtagCount }

func (d *hashtagCountDetector) Evaluate(b *evidence.Bundle) *Signal {
	var found []string
	seen := map[string]bool{}
	for _, u := range b.UnitsBySource(evidence.SourceHashtag) {
		tag := strings.ToLower(strings.TrimSpace(u.Text))
		if aiHashtags[tag] && !seen[tag] {
			seen[tag] = true
			found = append(found, tag)
		}
	}
	if len(found) < 2 {
		return nil
	}
	return &Signal{
		Detector:   DetectorHashtagCount,
		Confidence: 0.8,
		Evidence:   map[string]string{"hashtags": strings.Join(found, " ")},
	}
}
