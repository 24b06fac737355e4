package signature

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// sigFile is the on-disk YAML shape of one signature shard.
// Unknown fields are ignored by design: the authoring format grows fields
// (references, review notes) that the engine does not care about.
type sigFile struct {
	Category   string     `yaml:"category"`
	Categories []Category `yaml:"categories"`
	Signatures []sigEntry `yaml:"signatures"`
}

type sigEntry struct {
	ID         string   `yaml:"id"`
	Category   string   `yaml:"category"`
	Severity   string   `yaml:"severity"`
	Triggers   []string `yaml:"triggers"`
	Regex      bool     `yaml:"regex"`
	Exclusions []string `yaml:"exclusions"`
	Message    string   `yaml:"message"`
	Source     string   `yaml:"source"`
}

// Repository holds the compiled signature set. Reload swaps the whole set
// atomically under the write lock, so a hot reload never exposes a
// half-loaded database to concurrent matchers.
type Repository struct {
	mu         sync.RWMutex
	signatures []*Signature
	byCategory map[string][]*Signature
	categories map[string]Category
}

// Load reads every *.yaml / *.yml file under dir and compiles the entries.
// Malformed entries are skipped and reported; only an unreadable directory
// is a hard error. With an empty dir, the built-in default set is used.
func Load(dir string) (*Repository, []LoadError, error) {
	r := &Repository{
		byCategory: make(map[string][]*Signature),
		categories: make(map[string]Category),
	}
	errs, err := r.load(dir)
	if err != nil {
		return nil, errs, err
	}
	return r, errs, nil
}

// Reload re-reads dir and swaps the compiled set in place.
func (r *Repository) Reload(dir string) ([]LoadError, error) {
	fresh := &Repository{
		byCategory: make(map[string][]*Signature),
		categories: make(map[string]Category),
	}
	errs, err := fresh.load(dir)
	if err != nil {
		return errs, err
	}
	r.mu.Lock()
	r.signatures = fresh.signatures
	r.byCategory = fresh.byCategory
	r.categories = fresh.categories
	r.mu.Unlock()
	return errs, nil
}

func (r *Repository) load(dir string) ([]LoadError, error) {
	for id, cat := range builtinCategories {
		r.categories[id] = cat
	}

	if dir == "" {
		r.install(builtinSignatures(), "")
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading signature dir %s: %w", dir, err)
	}

	var loadErrs []LoadError
	loadedAny := false
	for _, ent := range entries {
		name := ent.Name()
		if ent.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			loadErrs = append(loadErrs, LoadError{File: name, Reason: err.Error()})
			continue
		}
		var f sigFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			loadErrs = append(loadErrs, LoadError{File: name, Reason: "invalid YAML: " + err.Error()})
			continue
		}
		for _, cat := range f.Categories {
			if cat.ID != "" {
				r.categories[cat.ID] = cat
			}
		}
		for _, entry := range f.Signatures {
			sig, lerr := compile(entry, f.Category, name)
			if lerr != nil {
				loadErrs = append(loadErrs, *lerr)
				continue
			}
			r.install([]*Signature{sig}, "")
			loadedAny = true
		}
	}

	// An installation with an empty or fully-broken DB still needs to
	// classify something; fall back to the built-in definitions.
	if !loadedAny {
		log.Printf("[SIGNATURES] no signatures loaded from %s, using built-in set", dir)
		r.install(builtinSignatures(), "")
	}
	return loadErrs, nil
}

// compile validates one entry and compiles its patterns.
func compile(e sigEntry, fileCategory, file string) (*Signature, *LoadError) {
	if e.ID == "" {
		return nil, &LoadError{File: file, Reason: "missing id"}
	}
	category := e.Category
	if category == "" {
		category = fileCategory
	}
	if category == "" {
		return nil, &LoadError{File: file, ID: e.ID, Reason: "missing category"}
	}
	if len(e.Triggers) == 0 {
		return nil, &LoadError{File: file, ID: e.ID, Reason: "no triggers"}
	}
	sev := Severity(strings.ToLower(e.Severity))
	if e.Severity == "" {
		sev = SeverityMedium
	}
	if !sev.Valid() {
		return nil, &LoadError{File: file, ID: e.ID, Reason: fmt.Sprintf("unknown severity %q", e.Severity)}
	}

	sig := &Signature{
		ID:       e.ID,
		Category: category,
		Severity: sev,
		Message:  e.Message,
		Source:   e.Source,
	}
	for _, ex := range e.Exclusions {
		sig.Exclusions = append(sig.Exclusions, strings.ToLower(ex))
	}
	if e.Regex {
		for _, t := range e.Triggers {
			p, err := regexp.Compile("(?i)" + t)
			if err != nil {
				return nil, &LoadError{File: file, ID: e.ID, Reason: "bad pattern: " + err.Error()}
			}
			sig.Patterns = append(sig.Patterns, p)
		}
	} else {
		for _, t := range e.Triggers {
			sig.Triggers = append(sig.Triggers, strings.ToLower(t))
		}
	}
	if sig.Message == "" {
		sig.Message = "Potential safety concern detected"
	}
	return sig, nil
}

func (r *Repository) install(sigs []*Signature, _ string) {
	for _, s := range sigs {
		r.signatures = append(r.signatures, s)
		r.byCategory[s.Category] = append(r.byCategory[s.Category], s)
	}
}

// All returns the loaded signatures. The slice is shared; callers must not
// mutate it.
func (r *Repository) All() []*Signature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.signatures
}

// ByCategory returns the signatures in one category, never nil.
func (r *Repository) ByCategory(cat string) []*Signature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if sigs, ok := r.byCategory[cat]; ok {
		return sigs
	}
	return []*Signature{}
}

// Categories returns the known category descriptors sorted by id.
func (r *Repository) Categories() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CategoryName resolves a category id to its display name.
func (r *Repository) CategoryName(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.categories[id]; ok && c.Name != "" {
		return c.Name
	}
	if id == "" {
		return "General"
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

// Len returns the number of loaded signatures.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.signatures)
}
