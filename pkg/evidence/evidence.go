// Package evidence models the raw per-item inputs to classification:
// transcript text, community comments, and item metadata, each tagged with
// its origin so downstream scoring can weight sources independently.
package evidence

import "time"

// SourceType identifies where a piece of evidence text came from.
type SourceType string

const (
	SourceTranscript  SourceType = "transcript"
	SourceComment     SourceType = "comment"
	SourceTitle       SourceType = "title"
	SourceDescription SourceType = "description"
	SourceChannel     SourceType = "channel"
	SourceHashtag     SourceType = "hashtag"
)

// IsMetadata reports whether the source belongs to the metadata bucket
// for score fusion (everything that is neither transcript nor comment).
func (s SourceType) IsMetadata() bool {
	return s != SourceTranscript && s != SourceComment
}

// Unit is one block of evidence text with provenance.
// Weight carries engagement provenance (comment like-count); it is zero
// for sources where engagement does not apply.
type Unit struct {
	Source SourceType
	Text   string
	Weight float64
	Time   time.Time
}

// Comment is a community comment as returned by a CommentProvider.
type Comment struct {
	Text   string
	Likes  int
	Author string
}

// Metadata is the cheap descriptive data for an item.
type Metadata struct {
	Title       string
	Description string
	Channel     string
	Tags        []string
}

// Hints lets a caller supply already-known metadata (e.g. scraped by a
// browser extension) so the metadata provider round trip can be skipped.
type Hints struct {
	Title       string
	Description string
	Channel     string
}

// Empty reports whether the hints carry nothing usable.
func (h Hints) Empty() bool {
	return h.Title == "" && h.Description == "" && h.Channel == ""
}

// Bundle is the full evidence set gathered for one key, plus the record of
// which sources actually contributed. Sources is user-visible: a result
// scored from metadata alone is distinguishable from a multi-source one.
type Bundle struct {
	Key      string
	Units    []Unit
	Metadata Metadata
	Comments []Comment
	Sources  []SourceType
}

// Has reports whether any unit from the given source is present.
func (b *Bundle) Has(src SourceType) bool {
	for _, s := range b.Sources {
		if s == src {
			return true
		}
	}
	return false
}

// HasMetadata reports whether any metadata-bucket source contributed.
func (b *Bundle) HasMetadata() bool {
	for _, s := range b.Sources {
		if s.IsMetadata() {
			return true
		}
	}
	return false
}

// UnitsBySource returns the units originating from one source type.
func (b *Bundle) UnitsBySource(src SourceType) []Unit {
	var out []Unit
	for _, u := range b.Units {
		if u.Source == src {
			out = append(out, u)
		}
	}
	return out
}
