package evidence

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrNoEvidence means every source failed or returned nothing. It is
// distinct from "scored and found clean": with no text at all there is
// nothing to score.
var ErrNoEvidence = errors.New("no evidence available from any source")

var reHashtag = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// Gatherer fans out to the evidence providers, each under its own timeout,
// and assembles a Bundle from whatever came back. A single failed provider
// degrades the bundle instead of failing the call; only total exhaustion
// returns ErrNoEvidence.
type Gatherer struct {
	Transcripts TranscriptProvider // optional
	Comments    CommentProvider    // optional
	Metadata    MetadataProvider   // optional

	Timeout      time.Duration // per-provider bound, default 10s
	CommentLimit int           // default 100
}

const (
	defaultProviderTimeout = 10 * time.Second
	defaultCommentLimit    = 100
)

// Gather collects evidence for key. Hints, when non-empty, substitute for
// the metadata provider entirely (no round trip, no quota cost).
func (g *Gatherer) Gather(ctx context.Context, key string, hints Hints) (*Bundle, error) {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	limit := g.CommentLimit
	if limit <= 0 {
		limit = defaultCommentLimit
	}

	var (
		mu         sync.Mutex
		transcript string
		comments   []Comment
		meta       *Metadata
	)

	if !hints.Empty() {
		meta = &Metadata{Title: hints.Title, Description: hints.Description, Channel: hints.Channel}
	}

	eg, egCtx := errgroup.WithContext(ctx)

	if g.Transcripts != nil {
		eg.Go(func() error {
			tctx, cancel := context.WithTimeout(egCtx, timeout)
			defer cancel()
			text, err := g.Transcripts.FetchTranscript(tctx, key)
			if err != nil {
				log.Printf("[EVIDENCE] transcript unavailable for %s: %v", key, err)
				return nil // degrade, never propagate
			}
			mu.Lock()
			transcript = text
			mu.Unlock()
			return nil
		})
	}

	if g.Comments != nil {
		eg.Go(func() error {
			cctx, cancel := context.WithTimeout(egCtx, timeout)
			defer cancel()
			got, err := g.Comments.FetchComments(cctx, key, limit)
			if err != nil {
				log.Printf("[EVIDENCE] comments unavailable for %s: %v", key, err)
				return nil
			}
			mu.Lock()
			comments = got
			mu.Unlock()
			return nil
		})
	}

	if meta == nil && g.Metadata != nil {
		eg.Go(func() error {
			mctx, cancel := context.WithTimeout(egCtx, timeout)
			defer cancel()
			got, err := g.Metadata.FetchMetadata(mctx, key)
			if err != nil {
				log.Printf("[EVIDENCE] metadata unavailable for %s: %v", key, err)
				return nil
			}
			mu.Lock()
			meta = got
			mu.Unlock()
			return nil
		})
	}

	_ = eg.Wait() // provider errors are downgraded above

	bundle := assemble(key, transcript, comments, meta)
	if len(bundle.Units) == 0 {
		return nil, ErrNoEvidence
	}
	return bundle, nil
}

// assemble turns raw provider output into tagged evidence units.
func assemble(key, transcript string, comments []Comment, meta *Metadata) *Bundle {
	now := time.Now()
	b := &Bundle{Key: key, Comments: comments}

	seen := map[SourceType]bool{}
	add := func(src SourceType, text string, weight float64) {
		if strings.TrimSpace(text) == "" {
			return
		}
		b.Units = append(b.Units, Unit{Source: src, Text: text, Weight: weight, Time: now})
		if !seen[src] {
			seen[src] = true
			b.Sources = append(b.Sources, src)
		}
	}

	add(SourceTranscript, transcript, 0)
	for _, c := range comments {
		add(SourceComment, c.Text, float64(c.Likes))
	}
	if meta != nil {
		b.Metadata = *meta
		add(SourceTitle, meta.Title, 0)
		add(SourceDescription, meta.Description, 0)
		add(SourceChannel, meta.Channel, 0)
		for _, tag := range extractHashtags(meta) {
			add(SourceHashtag, tag, 0)
		}
	}
	return b
}

// extractHashtags pulls #tags from the title, description and tag list.
// Explicit tags are normalized to hashtag form so detectors see one shape.
func extractHashtags(meta *Metadata) []string {
	var out []string
	dedup := map[string]bool{}
	collect := func(tag string) {
		tag = strings.ToLower(tag)
		if !dedup[tag] {
			dedup[tag] = true
			out = append(out, tag)
		}
	}
	for _, text := range []string{meta.Title, meta.Description} {
		for _, t := range reHashtag.FindAllString(text, -1) {
			collect(t)
		}
	}
	for _, t := range meta.Tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "#") {
			t = "#" + strings.ReplaceAll(t, " ", "")
		}
		collect(t)
	}
	return out
}
