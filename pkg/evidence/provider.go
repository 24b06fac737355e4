package evidence

import "context"

// TranscriptProvider fetches the spoken-word transcript for an item.
// Best effort: implementations return ("", nil) when no transcript exists.
type TranscriptProvider interface {
	FetchTranscript(ctx context.Context, key string) (string, error)
}

// CommentProvider fetches top community comments for an item.
// Each call consumes external API quota; the admission controller budgets
// the calls, providers just make them.
type CommentProvider interface {
	FetchComments(ctx context.Context, key string, limit int) ([]Comment, error)
}

// MetadataProvider fetches title/description/channel for an item.
type MetadataProvider interface {
	FetchMetadata(ctx context.Context, key string) (*Metadata, error)
}
