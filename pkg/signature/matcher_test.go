package signature

import (
	"strings"
	"testing"

	"github.com/safeharbor-labs/vidguard/pkg/evidence"
)

func testRepo(t *testing.T, sigs ...*Signature) *Repository {
	t.Helper()
	r := &Repository{
		byCategory: make(map[string][]*Signature),
		categories: make(map[string]Category),
	}
	r.install(sigs, "")
	return r
}

func unit(src evidence.SourceType, text string) evidence.Unit {
	return evidence.Unit{Source: src, Text: text}
}

func TestMatch_SubstringTrigger(t *testing.T) {
	repo := testRepo(t, &Signature{
		ID: "s1", Category: "chemical", Severity: SeverityCritical,
		Triggers: []string{"mix bleach and ammonia"},
		Message:  "toxic gas",
	})

	matches := repo.Match([]evidence.Unit{
		unit(evidence.SourceTranscript, "today I will MIX BLEACH AND AMMONIA for a deep clean"),
	})
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.SignatureID != "s1" || m.Severity != SeverityCritical || m.Source != evidence.SourceTranscript {
		t.Errorf("match = %+v", m)
	}
	if m.Excerpt != "mix bleach and ammonia" {
		t.Errorf("Excerpt = %q", m.Excerpt)
	}
}

func TestMatch_ExclusionSuppresses(t *testing.T) {
	repo := testRepo(t, &Signature{
		ID: "s1", Category: "chemical", Severity: SeverityCritical,
		Triggers:   []string{"mix bleach and ammonia"},
		Exclusions: []string{"never mix"},
	})

	matches := repo.Match([]evidence.Unit{
		unit(evidence.SourceTranscript, "whatever you do, never mix bleach and ammonia"),
	})
	if len(matches) != 0 {
		t.Fatalf("exclusion phrase should suppress the match, got %+v", matches)
	}
}

func TestMatch_RegexTrigger(t *testing.T) {
	repo := testRepo(t, mustCompileEntry(t, sigEntry{
		ID: "r1", Category: "fitness", Severity: "high", Regex: true,
		Triggers: []string{`(\d+)\s*lbs? with no spotter`},
	}))

	matches := repo.Match([]evidence.Unit{
		unit(evidence.SourceComment, "he benched 315 lbs with no spotter"),
	})
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Excerpt != "315 lbs with no spotter" {
		t.Errorf("Excerpt = %q", matches[0].Excerpt)
	}
}

func mustCompileEntry(t *testing.T, e sigEntry) *Signature {
	t.Helper()
	sig, lerr := compile(e, "", "test")
	if lerr != nil {
		t.Fatalf("compile: %v", lerr)
	}
	return sig
}

func TestMatch_OnePerSignaturePerBlock(t *testing.T) {
	repo := testRepo(t, &Signature{
		ID: "s1", Category: "cooking", Severity: SeverityHigh,
		Triggers: []string{"water to hot oil", "water in grease"},
	})

	matches := repo.Match([]evidence.Unit{
		unit(evidence.SourceTranscript, "add water to hot oil, then more water in grease"),
	})
	if len(matches) != 1 {
		t.Fatalf("multiple triggers in one block should collapse to one match, got %d", len(matches))
	}
}

func TestMatch_SameSignatureAcrossBlocks(t *testing.T) {
	repo := testRepo(t, &Signature{
		ID: "s1", Category: "cooking", Severity: SeverityHigh,
		Triggers: []string{"water to hot oil"},
	})

	matches := repo.Match([]evidence.Unit{
		unit(evidence.SourceTranscript, "add water to hot oil"),
		unit(evidence.SourceComment, "do NOT add water to hot oil"),
	})
	if len(matches) != 2 {
		t.Fatalf("distinct blocks keep their own matches, got %d", len(matches))
	}
	if matches[0].Source == matches[1].Source {
		t.Error("matches should carry distinct provenance")
	}
}

func TestMatch_LargeBlockTruncated(t *testing.T) {
	repo := testRepo(t, &Signature{
		ID: "s1", Category: "diy", Severity: SeverityHigh,
		Triggers: []string{"pvc pipe for compressed air"},
	})

	// Trigger placed beyond the matching bound must not fire.
	huge := strings.Repeat("a", MaxBlockLen+100) + " pvc pipe for compressed air"
	if matches := repo.Match([]evidence.Unit{unit(evidence.SourceTranscript, huge)}); len(matches) != 0 {
		t.Errorf("text past the block cap should be ignored, got %d matches", len(matches))
	}

	// The same trigger inside the bound fires.
	inBounds := "pvc pipe for compressed air " + strings.Repeat("a", MaxBlockLen)
	if matches := repo.Match([]evidence.Unit{unit(evidence.SourceTranscript, inBounds)}); len(matches) != 1 {
		t.Errorf("trigger inside the cap should match, got %d matches", len(matches))
	}
}

func TestMatch_UnicodeObfuscation(t *testing.T) {
	repo := testRepo(t, &Signature{
		ID: "s1", Category: "chemical", Severity: SeverityCritical,
		Triggers: []string{"mix bleach and ammonia"},
	})

	obfuscated := "mix ble​ach and am­monia"
	if matches := repo.Match([]evidence.Unit{unit(evidence.SourceTitle, obfuscated)}); len(matches) != 1 {
		t.Errorf("zero-width obfuscation should still match, got %d matches", len(matches))
	}
}

func TestMatch_EmptyInputs(t *testing.T) {
	repo := testRepo(t)
	if got := repo.Match([]evidence.Unit{unit(evidence.SourceTitle, "anything")}); len(got) != 0 {
		t.Error("empty repository must match nothing")
	}

	repo = testRepo(t, &Signature{ID: "s1", Category: "diy", Severity: SeverityLow, Triggers: []string{"x"}})
	if got := repo.Match(nil); len(got) != 0 {
		t.Error("no blocks must match nothing")
	}
}

func TestMatch_WeightCarriedFromUnit(t *testing.T) {
	repo := testRepo(t, &Signature{
		ID: "s1", Category: "fitness", Severity: SeverityHigh,
		Triggers: []string{"no spotter"},
	})
	matches := repo.Match([]evidence.Unit{
		{Source: evidence.SourceComment, Text: "lifting with no spotter again", Weight: 250},
	})
	if len(matches) != 1 || matches[0].Weight != 250 {
		t.Fatalf("matches = %+v, want weight 250 carried through", matches)
	}
}

func TestBuiltins_CompileAndMatch(t *testing.T) {
	repo, _, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	matches := repo.Match([]evidence.Unit{
		unit(evidence.SourceTranscript, "for max gains you should lift without a spotter"),
	})
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Category != "fitness" || matches[0].Severity != SeverityHigh {
		t.Errorf("match = %+v", matches[0])
	}
}
