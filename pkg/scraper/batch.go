package scraper

import (
	"context"

	"igingest/pkg/errors"
	"igingest/pkg/logger"
	"igingest/pkg/models"
)

// Report summarizes one profile's run inside a batch.
type Report struct {
	Username string
	Outcome  models.Outcome
	Posts    int
	Err      error
}

// BatchRunner ingests a list of profiles sequentially and persists every
// result that produced data. One profile failing never stops the batch.
type BatchRunner struct {
	ingestor *ProfileIngestor
	sinks    []RecordSink
	logger   logger.Logger
}

// NewBatchRunner creates a runner that writes each non-failed result through
// every sink in order.
func NewBatchRunner(ingestor *ProfileIngestor, sinks []RecordSink, log logger.Logger) *BatchRunner {
	if log == nil {
		log = logger.GetLogger()
	}
	return &BatchRunner{
		ingestor: ingestor,
		sinks:    sinks,
		logger:   log,
	}
}

// Run processes the usernames in order and returns one report per username,
// in the same order. Persistence errors are recorded on the report but do not
// abort the batch, and do not downgrade the ingest outcome.
func (b *BatchRunner) Run(ctx context.Context, usernames []string) []Report {
	reports := make([]Report, 0, len(usernames))

	for i, username := range usernames {
		b.logger.InfoWithFields("batch progress", map[string]interface{}{
			"username": username,
			"position": i + 1,
			"total":    len(usernames),
		})

		result := b.ingestor.Ingest(ctx, username)
		report := Report{
			Username: username,
			Outcome:  result.Outcome,
			Posts:    len(result.Posts),
			Err:      result.Err,
		}

		if result.Outcome != models.OutcomeFailed {
			if err := b.persist(ctx, result); err != nil {
				b.logger.WithField("username", username).WithError(err).Error("persist failed")
				report.Err = err
			}
		}

		reports = append(reports, report)

		if ctx.Err() != nil {
			break
		}
	}

	return reports
}

func (b *BatchRunner) persist(ctx context.Context, result *models.IngestResult) error {
	for _, sink := range b.sinks {
		if err := sink.Persist(ctx, result); err != nil {
			return errors.Newf(errors.ErrorTypeSink, "persisting %s: %v", result.Profile.Username, err)
		}
	}
	return nil
}
