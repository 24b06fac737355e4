package aidetect

import (
	"regexp"

	"github.com/safeharbor-labs/vidguard/pkg/evidence"
	"github.com/safeharbor-labs/vidguard/pkg/textnorm"
)

// Channel naming conventions of AI-content farms: "AI <subject>" or
// "<subject> AI" ("AI Animals", "Funny Cats AI"). Requires AI as a
// standalone leading or trailing word so channels like "Air Crash
// Investigations" or "Bondi Rescue AID" do not fire.
var channelAIPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^ai\s+\S+`),
	regexp.MustCompile(`\S+\s+ai$`),
}

type channelNameDetector struct{}

func (d *channelNameDetector) Name() string { return DetectorChannelName }

func (d *channelNameDetector) Evaluate(b *evidence.Bundle) *Signal {
	channel := textnorm.Fold(b.Metadata.Channel)
	if channel == "" {
		return nil
	}
	for _, p := range channelAIPatterns {
		if p.MatchString(channel) {
			return &Signal{
				Detector:   DetectorChannelName,
				Confidence: 0.5,
				Evidence:   map[string]string{"channel": b.Metadata.Channel},
			}
		}
	}
	return nil
}
