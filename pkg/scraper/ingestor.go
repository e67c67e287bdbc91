package scraper

import (
	"context"
	"time"

	"igingest/pkg/errors"
	"igingest/pkg/logger"
	"igingest/pkg/models"
	"igingest/pkg/ratelimit"
)

// ProfileIngestor drives a full scrape of one profile: resolve the account,
// snapshot its metadata, then drain its post stream into records.
type ProfileIngestor struct {
	source   Source
	limiter  ratelimit.Limiter
	maxPosts int
	logger   logger.Logger
}

// NewProfileIngestor creates an ingestor. maxPosts <= 0 fetches every
// available post.
func NewProfileIngestor(source Source, limiter ratelimit.Limiter, maxPosts int, log logger.Logger) *ProfileIngestor {
	if log == nil {
		log = logger.GetLogger()
	}
	return &ProfileIngestor{
		source:   source,
		limiter:  limiter,
		maxPosts: maxPosts,
		logger:   log,
	}
}

// Ingest scrapes a single profile and classifies the outcome. It never
// returns a nil result: resolution failures yield an OutcomeFailed result
// carrying the error, and a stream that breaks mid-way yields OutcomePartial
// with every record collected before the break.
func (in *ProfileIngestor) Ingest(ctx context.Context, username string) *models.IngestResult {
	log := in.logger.WithField("username", username)
	log.Info("starting profile ingest")

	handle, err := in.source.ResolveProfile(ctx, username)
	if err != nil {
		switch {
		case errors.IsNotFound(err):
			log.Warn("profile not found")
		case errors.IsForbidden(err):
			log.Warn("profile not accessible")
		default:
			log.WithError(err).Error("profile resolution failed")
		}
		return in.failed(username, err)
	}

	snapshot := handle.Snapshot()
	snapshot.ScrapedAt = time.Now().UTC()
	log.InfoWithFields("profile resolved", map[string]interface{}{
		"user_id":     snapshot.UserID,
		"followers":   snapshot.Followers,
		"posts_count": snapshot.PostsCount,
	})

	stream, err := handle.PostStream(ctx)
	if err != nil {
		log.WithError(err).Error("could not open post stream")
		return in.failed(username, err)
	}
	defer stream.Close()

	fetcher := NewPostFetcher(stream, snapshot, in.limiter, in.maxPosts, in.logger)

	var posts []models.PostRecord
	for {
		record, ok := fetcher.Next(ctx)
		if !ok {
			break
		}
		posts = append(posts, record)
	}

	result := &models.IngestResult{
		Profile: &snapshot,
		Posts:   posts,
	}

	switch fetcher.Status() {
	case StatusStreamError:
		if len(posts) > 0 {
			result.Outcome = models.OutcomePartial
		} else {
			result.Outcome = models.OutcomeFailed
		}
		result.Err = fetcher.Err()
	default:
		result.Outcome = models.OutcomeComplete
	}

	log.InfoWithFields("profile ingest finished", map[string]interface{}{
		"outcome": string(result.Outcome),
		"posts":   len(posts),
		"skipped": fetcher.Skipped(),
		"status":  string(fetcher.Status()),
	})
	return result
}

func (in *ProfileIngestor) failed(username string, err error) *models.IngestResult {
	return &models.IngestResult{
		Profile: &models.ProfileSnapshot{Username: username},
		Outcome: models.OutcomeFailed,
		Err:     err,
	}
}
