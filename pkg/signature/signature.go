// Package signature holds the danger-signature database and the matcher
// that tests evidence text against it. Signatures work like antivirus
// definitions for risky content: trigger phrases or regexes, a category,
// a severity, and a user-facing warning message.
package signature

import (
	"fmt"
	"regexp"

	"github.com/safeharbor-labs/vidguard/pkg/evidence"
)

// Severity is the risk level a signature assigns when it fires.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities for sorting; higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 0
	}
	return -1
}

// Valid reports whether s is one of the four known levels.
func (s Severity) Valid() bool {
	return s.Rank() >= 0
}

// Signature is one compiled detection rule. Immutable once loaded.
type Signature struct {
	ID         string
	Category   string
	Severity   Severity
	Triggers   []string         // lowercase substring triggers
	Patterns   []*regexp.Regexp // compiled regex triggers
	Exclusions []string         // lowercase phrases that suppress a match
	Message    string
	Source     string // citation (standard, guideline) if any
}

// Match records one signature firing against one evidence block.
type Match struct {
	SignatureID string
	Category    string
	Severity    Severity
	Message     string
	Excerpt     string // the trigger text as matched
	Source      evidence.SourceType
	Weight      float64 // provenance weight of the originating unit
}

// LoadError describes a single malformed signature entry. The entry is
// skipped; the rest of the file keeps loading.
type LoadError struct {
	File   string
	ID     string
	Reason string
}

func (e LoadError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Reason)
	}
	return fmt.Sprintf("%s: signature %q: %s", e.File, e.ID, e.Reason)
}

// Category describes a signature grouping for display.
type Category struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}
