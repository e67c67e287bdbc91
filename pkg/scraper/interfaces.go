package scraper

import (
	"context"
	"errors"
	"time"

	"igingest/pkg/models"
)

// ErrEndOfStream is returned by PostStream.Next when the remote stream is
// exhausted.
var ErrEndOfStream = errors.New("end of stream")

// RemoteItem is one raw post item pulled from the remote stream. Like and
// comment counts default to zero when the source omits them.
type RemoteItem struct {
	ID           string
	IsVideo      bool
	PublishedAt  time.Time
	LikeCount    int
	CommentCount int
	Caption      string
}

// PostStream is a lazy, source-ordered, non-restartable sequence of post
// items belonging to one profile.
type PostStream interface {
	// Next returns the next item in stream order. It returns ErrEndOfStream
	// once the stream is exhausted. An item-classified error (see pkg/errors)
	// marks a single bad item and leaves the stream usable; any other error
	// is a stream-level failure.
	Next(ctx context.Context) (RemoteItem, error)

	// Close releases the stream handle. The stream cannot be resumed.
	Close() error
}

// ProfileHandle is a resolved remote profile.
type ProfileHandle interface {
	// Snapshot returns the profile's identity and counters as reported at
	// resolution time. ScrapedAt is stamped by the ingestor.
	Snapshot() models.ProfileSnapshot

	// PostStream opens the profile's post stream.
	PostStream(ctx context.Context) (PostStream, error)
}

// Source is the remote profile/post data source consumed by the pipeline.
type Source interface {
	// ResolveProfile looks up a profile by username. Missing profiles yield a
	// not_found error, private/inaccessible ones a forbidden error.
	ResolveProfile(ctx context.Context, username string) (ProfileHandle, error)
}

// RecordSink durably persists one ingestion result.
type RecordSink interface {
	Persist(ctx context.Context, result *models.IngestResult) error
}
