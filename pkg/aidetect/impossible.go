package aidetect

import (
	"strings"

	"github.com/safeharbor-labs/vidguard/pkg/evidence"
	"github.com/safeharbor-labs/vidguard/pkg/textnorm"
)

// Subject and action vocabularies for the impossible-content check.
// The co-occurrence of an animal subject with a human-only activity in a
// title is the single most reliable tell of generated slop ("Parrot calls
// the FBI", "Cat ordering DoorDash").
var impossibleSubjects = []string{
	"parrot", "bird", "cat", "dog", "monkey", "ape", "gorilla", "chimp",
	"elephant", "lion", "tiger", "bear", "fox", "raccoon", "squirrel",
	"rabbit", "hamster", "horse", "cow", "pig", "chicken", "duck", "owl",
	"crow", "fish", "shark", "whale", "dolphin", "penguin", "frog",
	"turtle", "snake", "lizard", "crocodile", "alligator",
}

var impossibleActions = []string{
	// conversation
	"talk", "talking", "speaks", "speaking", "says", "conversation",
	"interview", "podcast", "argues", "arguing", "complains", "rants",
	// human activities
	"driving", "drives a car", "cooking dinner", "plays piano",
	"playing piano", "typing", "texting", "reads the news", "paints",
	"singing opera", "graduates", "gets married", "files for divorce",
	// services and drama
	"calls 911", "calls the police", "calls the fbi", "orders pizza",
	"ordering", "doordash", "uber", "online shopping", "video call",
	"facetime", "zoom meeting", "sues", "lawsuit", "custody", "arrested",
	"goes to court", "demands a refund", "asks for the manager",
}

type impossibleContentDetector struct{}

func (d *impossibleContentDetector) Name() string { return DetectorImpossible }

func (d *impossibleContentDetector) Evaluate(b *evidence.Bundle) *Signal {
	text := textnorm.Fold(b.Metadata.Title + " " + b.Metadata.Description)
	if text == "" {
		return nil
	}
	subject := firstWordMatch(text, impossibleSubjects)
	if subject == "" {
		return nil
	}
	action := firstContained(text, impossibleActions)
	if action == "" {
		return nil
	}
	return &Signal{
		Detector:   DetectorImpossible,
		Confidence: 0.8,
		Evidence:   map[string]string{"subject": subject, "action": action},
	}
}

// firstWordMatch finds the first keyword present as a whole word.
func firstWordMatch(text string, words []string) string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	present := make(map[string]bool, len(fields))
	for _, f := range fields {
		present[f] = true
		// a cheap singular fold: "cats order pizza" should match "cat"
		if strings.HasSuffix(f, "s") {
			present[strings.TrimSuffix(f, "s")] = true
		}
	}
	for _, w := range words {
		if present[w] {
			return w
		}
	}
	return ""
}

// firstContained finds the first phrase contained as a substring.
func firstContained(text string, phrases []string) string {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return p
		}
	}
	return ""
}
