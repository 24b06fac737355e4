package signature

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fitness.yaml", `
category: fitness
categories:
  - id: fitness
    name: Fitness
    description: Exercise safety
signatures:
  - id: test-001
    severity: high
    triggers:
      - "lock your knees"
    message: "Knee locking risk"
  - id: test-002
    severity: low
    regex: true
    triggers:
      - 'drop\s+weights?'
    message: "Dropped weight risk"
`)

	repo, errs, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected load errors: %v", errs)
	}
	if repo.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", repo.Len())
	}
	if got := len(repo.ByCategory("fitness")); got != 2 {
		t.Errorf("ByCategory(fitness) = %d entries, want 2", got)
	}
	if name := repo.CategoryName("fitness"); name != "Fitness" {
		t.Errorf("CategoryName = %q, want Fitness", name)
	}
}

func TestLoad_MalformedEntriesAreSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mixed.yaml", `
category: diy
signatures:
  - id: good-001
    severity: medium
    triggers: ["pvc pipe for compressed air"]
    message: "PVC pressure risk"
  - severity: high
    triggers: ["no id here"]
  - id: bad-regex
    severity: high
    regex: true
    triggers: ["([unclosed"]
  - id: bad-severity
    severity: catastrophic
    triggers: ["whatever"]
  - id: no-triggers
    severity: low
    triggers: []
  - id: good-002
    severity: low
    triggers: ["burn treated lumber"]
    message: "Treated wood risk"
`)

	repo, errs, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if repo.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 valid entries", repo.Len())
	}
	if len(errs) != 4 {
		t.Fatalf("got %d load errors, want 4: %v", len(errs), errs)
	}
	for _, e := range errs {
		if e.Error() == "" {
			t.Error("LoadError should render a message")
		}
	}
}

func TestLoad_InvalidYAMLFileDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "{{{ not yaml")
	writeFile(t, dir, "ok.yaml", `
category: cooking
signatures:
  - id: ok-001
    severity: high
    triggers: ["add water to hot oil"]
    message: "Oil splatter risk"
`)

	repo, errs, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if repo.Len() != 1 {
		t.Errorf("Len() = %d, want 1", repo.Len())
	}
	if len(errs) != 1 {
		t.Errorf("got %d load errors, want 1 for the broken file", len(errs))
	}
}

func TestLoad_EmptyDirFallsBackToBuiltins(t *testing.T) {
	repo, errs, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if repo.Len() == 0 {
		t.Fatal("empty dir should fall back to the built-in set")
	}
}

func TestLoad_NoDirUsesBuiltins(t *testing.T) {
	repo, _, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if repo.Len() != len(builtinDefs) {
		t.Errorf("Len() = %d, want %d builtins", repo.Len(), len(builtinDefs))
	}
}

func TestLoad_MissingDirIsHardError(t *testing.T) {
	if _, _, err := Load("/does/not/exist-anywhere"); err == nil {
		t.Fatal("unreadable directory should be a hard error")
	}
}

func TestReload_SwapsAtomically(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", `
category: medical
signatures:
  - id: v1-001
    severity: high
    triggers: ["old trigger"]
    message: "old"
`)
	repo, _, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if repo.Len() != 1 {
		t.Fatalf("Len() = %d", repo.Len())
	}

	writeFile(t, dir, "a.yaml", `
category: medical
signatures:
  - id: v2-001
    severity: high
    triggers: ["new trigger"]
    message: "new"
  - id: v2-002
    severity: low
    triggers: ["second trigger"]
    message: "new"
`)
	if _, err := repo.Reload(dir); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if repo.Len() != 2 {
		t.Errorf("Len() after reload = %d, want 2", repo.Len())
	}
	for _, s := range repo.All() {
		if s.ID == "v1-001" {
			t.Error("old signatures should be gone after reload")
		}
	}
}

func TestDefaultSeverityAndMessage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "d.yaml", `
category: diy
signatures:
  - id: default-001
    triggers: ["some trigger"]
`)
	repo, errs, err := Load(dir)
	if err != nil || len(errs) != 0 {
		t.Fatalf("Load() = errs %v, err %v", errs, err)
	}
	s := repo.All()[0]
	if s.Severity != SeverityMedium {
		t.Errorf("default severity = %s, want medium", s.Severity)
	}
	if s.Message == "" {
		t.Error("default message should be filled in")
	}
}

func TestSeverityRank(t *testing.T) {
	order := []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("%s should outrank %s", order[i], order[i-1])
		}
	}
	if Severity("bogus").Valid() {
		t.Error("unknown severity should be invalid")
	}
}
