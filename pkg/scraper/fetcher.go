package scraper

import (
	"context"
	stderrors "errors"

	"igingest/pkg/errors"
	"igingest/pkg/hashtag"
	"igingest/pkg/logger"
	"igingest/pkg/models"
	"igingest/pkg/ratelimit"
)

// FetchStatus is the terminal status of a post fetch.
type FetchStatus string

const (
	// StatusRunning means the fetcher has not reached a stopping condition yet.
	StatusRunning FetchStatus = "running"
	// StatusExhausted means the remote stream ran out of items.
	StatusExhausted FetchStatus = "exhausted"
	// StatusBounded means the fetch stopped at the requested max post count.
	StatusBounded FetchStatus = "bounded_stop"
	// StatusStreamError means enumeration itself failed; records yielded
	// before the failure remain valid.
	StatusStreamError FetchStatus = "stream_error"
)

// PostFetcher lazily yields normalized PostRecords from a profile's post
// stream, waiting on the rate limiter before every item and skipping items
// that individually fail. It is single-use: once a stopping condition is
// reached, Next keeps returning false.
type PostFetcher struct {
	stream   PostStream
	snapshot models.ProfileSnapshot
	limiter  ratelimit.Limiter
	maxPosts int
	logger   logger.Logger

	fetched int
	skipped int
	status  FetchStatus
	err     error
}

// NewPostFetcher creates a fetcher over an open stream. The snapshot's
// profile fields are denormalized onto every record as they were at fetch
// start; they are not re-read per item. maxPosts <= 0 means all available.
func NewPostFetcher(stream PostStream, snapshot models.ProfileSnapshot, limiter ratelimit.Limiter, maxPosts int, log logger.Logger) *PostFetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	return &PostFetcher{
		stream:   stream,
		snapshot: snapshot,
		limiter:  limiter,
		maxPosts: maxPosts,
		logger:   log,
		status:   StatusRunning,
	}
}

// Next produces the next PostRecord in stream order. It returns false once a
// stopping condition is reached; Status and Err describe which one.
func (f *PostFetcher) Next(ctx context.Context) (models.PostRecord, bool) {
	if f.status != StatusRunning {
		return models.PostRecord{}, false
	}

	for {
		if f.maxPosts > 0 && f.fetched >= f.maxPosts {
			f.status = StatusBounded
			return models.PostRecord{}, false
		}

		f.limiter.Wait()

		item, err := f.stream.Next(ctx)
		if err != nil {
			if stderrors.Is(err, ErrEndOfStream) {
				f.status = StatusExhausted
				return models.PostRecord{}, false
			}
			if errors.IsItem(err) {
				f.skipItem("", err)
				continue
			}
			f.status = StatusStreamError
			f.err = err
			f.logger.ErrorWithFields("post stream failed", map[string]interface{}{
				"username": f.snapshot.Username,
				"fetched":  f.fetched,
				"error":    err.Error(),
			})
			return models.PostRecord{}, false
		}

		record, err := f.mapItem(item)
		if err != nil {
			f.skipItem(item.ID, err)
			continue
		}

		f.fetched++
		return record, true
	}
}

// mapItem normalizes one remote item into a PostRecord
func (f *PostFetcher) mapItem(item RemoteItem) (models.PostRecord, error) {
	if item.ID == "" {
		return models.PostRecord{}, errors.New(errors.ErrorTypeItem, "item missing post id")
	}

	postType := models.PostTypeImage
	if item.IsVideo {
		postType = models.PostTypeVideo
	}

	return models.PostRecord{
		PostID:        item.ID,
		UserID:        f.snapshot.UserID,
		Username:      f.snapshot.Username,
		Followers:     f.snapshot.Followers,
		Following:     f.snapshot.Following,
		PostType:      postType,
		PostTimestamp: item.PublishedAt,
		Likes:         item.LikeCount,
		Comments:      item.CommentCount,
		Caption:       item.Caption,
		Hashtags:      hashtag.Extract(item.Caption),
	}, nil
}

// skipItem logs a per-item failure and moves on; a single bad item never
// aborts the fetch.
func (f *PostFetcher) skipItem(postID string, err error) {
	f.skipped++
	f.logger.WarnWithFields("skipping post", map[string]interface{}{
		"username": f.snapshot.Username,
		"post_id":  postID,
		"error":    err.Error(),
	})
}

// Status returns the terminal status, or StatusRunning while items remain
func (f *PostFetcher) Status() FetchStatus {
	return f.status
}

// Err returns the stream-level error, if Status is StatusStreamError
func (f *PostFetcher) Err() error {
	return f.err
}

// Fetched returns the number of records yielded so far
func (f *PostFetcher) Fetched() int {
	return f.fetched
}

// Skipped returns the number of items dropped by per-item failures
func (f *PostFetcher) Skipped() int {
	return f.skipped
}
