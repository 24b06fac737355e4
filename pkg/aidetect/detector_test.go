package aidetect

import (
	"testing"

	"github.com/safeharbor-labs/vidguard/pkg/evidence"
)

func bundleWithMeta(meta evidence.Metadata, hashtags ...string) *evidence.Bundle {
	b := &evidence.Bundle{Metadata: meta}
	for _, tag := range hashtags {
		b.Units = append(b.Units, evidence.Unit{Source: evidence.SourceHashtag, Text: tag})
	}
	return b
}

func TestTitlePatternDetector(t *testing.T) {
	tests := []struct {
		name  string
		title string
		fire  bool
	}{
		{"doesnt exist", "This cat doesn't exist", true},
		{"typographic apostrophe", "This Dog Doesn’t Exist", true},
		{"does not exist", "Animals that does not exist", true},
		{"not real", "These puppies are not real", true},
		{"ai generated tag", "AI-generated ocean documentary", true},
		{"made with ai", "Short film made with AI", true},
		{"plain title", "How to fix a leaky faucet", false},
		{"empty", "", false},
	}
	d := &titlePatternDetector{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := d.Evaluate(bundleWithMeta(evidence.Metadata{Title: tt.title}))
			if tt.fire && sig == nil {
				t.Fatalf("expected signal for %q", tt.title)
			}
			if !tt.fire && sig != nil {
				t.Fatalf("unexpected signal for %q: %+v", tt.title, sig)
			}
			if sig != nil && sig.Confidence != 0.5 {
				t.Errorf("Confidence = %v, want 0.5", sig.Confidence)
			}
		})
	}
}

func TestHashtagCountDetector(t *testing.T) {
	d := &hashtagCountDetector{}

	if sig := d.Evaluate(bundleWithMeta(evidence.Metadata{}, "#ai")); sig != nil {
		t.Errorf("one tag should not fire: %+v", sig)
	}
	if sig := d.Evaluate(bundleWithMeta(evidence.Metadata{}, "#ai", "#ai", "#AI")); sig != nil {
		t.Errorf("duplicate tags should not fire: %+v", sig)
	}
	if sig := d.Evaluate(bundleWithMeta(evidence.Metadata{}, "#funny", "#cats")); sig != nil {
		t.Errorf("non-AI tags should not fire: %+v", sig)
	}

	sig := d.Evaluate(bundleWithMeta(evidence.Metadata{}, "#ai", "#midjourney", "#funny"))
	if sig == nil {
		t.Fatal("two distinct AI tags should fire")
	}
	if sig.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", sig.Confidence)
	}
}

func TestChannelNameDetector(t *testing.T) {
	tests := []struct {
		channel string
		fire    bool
	}{
		{"AI Animals", true},
		{"Funny Cats AI", true},
		{"Air Crash Investigations", false},
		{"Bondi Rescue AID", false},
		{"HomeImprovementTV", false},
		{"", false},
	}
	d := &channelNameDetector{}
	for _, tt := range tests {
		sig := d.Evaluate(bundleWithMeta(evidence.Metadata{Channel: tt.channel}))
		if (sig != nil) != tt.fire {
			t.Errorf("channel %q: fired=%v, want %v", tt.channel, sig != nil, tt.fire)
		}
		if sig != nil && sig.Confidence != 0.5 {
			t.Errorf("Confidence = %v, want 0.5", sig.Confidence)
		}
	}
}

func TestImpossibleContentDetector(t *testing.T) {
	tests := []struct {
		name  string
		title string
		fire  bool
	}{
		{"parrot calls fbi", "Parrot calls the FBI on his owner", true},
		{"cat orders pizza", "Cat orders pizza every friday", true},
		{"plural subject", "Dogs arguing about politics", true},
		{"subject only", "My parrot at the vet", false},
		{"action only", "Grandma calls the FBI", false},
		{"neither", "Sunset timelapse over the bay", false},
	}
	d := &impossibleContentDetector{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := d.Evaluate(bundleWithMeta(evidence.Metadata{Title: tt.title}))
			if (sig != nil) != tt.fire {
				t.Fatalf("fired=%v, want %v", sig != nil, tt.fire)
			}
			if sig != nil && sig.Confidence != 0.8 {
				t.Errorf("Confidence = %v, want 0.8", sig.Confidence)
			}
		})
	}
}

func TestDangerousComboDetector(t *testing.T) {
	d := &dangerousComboDetector{}

	sig := d.Evaluate(bundleWithMeta(evidence.Metadata{Title: "Infant plays with venomous snake"}))
	if sig == nil {
		t.Fatal("child plus dangerous animal in title should fire")
	}
	if sig.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", sig.Confidence)
	}
	if sig.Evidence["child"] != "infant" || sig.Evidence["animal"] != "snake" {
		t.Errorf("Evidence = %v", sig.Evidence)
	}

	// Co-occurrence must be within one text, not across texts.
	b := bundleWithMeta(evidence.Metadata{Title: "Baby's first steps", Description: "filmed at the snake exhibit"})
	if sig := d.Evaluate(b); sig != nil {
		t.Errorf("split across texts should not fire: %+v", sig)
	}

	// Transcript counts too.
	b = &evidence.Bundle{Units: []evidence.Unit{
		{Source: evidence.SourceTranscript, Text: "watch the toddler pet the crocodile"},
	}}
	if d.Evaluate(b) == nil {
		t.Error("transcript co-occurrence should fire")
	}
}

func TestEvaluate_Aggregation(t *testing.T) {
	b := bundleWithMeta(
		evidence.Metadata{Title: "This parrot doesn't exist", Channel: "AI Birds"},
		"#ai", "#sora",
	)
	res := Evaluate(Registry(), b)

	if !res.AIGenerated {
		t.Error("AIGenerated should be true")
	}
	if res.AIConfidence != 0.8 {
		t.Errorf("AIConfidence = %v, want max signal 0.8", res.AIConfidence)
	}
	if len(res.Signals) != 3 {
		t.Errorf("got %d signals, want title+hashtag+channel", len(res.Signals))
	}
	if res.Override != nil {
		t.Errorf("no override expected: %+v", res.Override)
	}
}

func TestEvaluate_OverrideSeparateFromAISignals(t *testing.T) {
	b := bundleWithMeta(evidence.Metadata{Title: "Toddler wrestles a python"})
	res := Evaluate(Registry(), b)

	if res.Override == nil {
		t.Fatal("override should be set")
	}
	if res.AIGenerated {
		t.Error("the safety override must not flag the item as AI-generated")
	}
	if res.AIConfidence != 0 {
		t.Errorf("AIConfidence = %v, want 0", res.AIConfidence)
	}
}

func TestEvaluate_CleanContent(t *testing.T) {
	b := bundleWithMeta(evidence.Metadata{
		Title:   "Proper deadlift form tutorial",
		Channel: "Strength Basics",
	})
	res := Evaluate(Registry(), b)
	if res.AIGenerated || res.AIConfidence != 0 || res.Override != nil || len(res.Signals) != 0 {
		t.Errorf("clean content produced %+v", res)
	}
}
