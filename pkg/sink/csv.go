package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strconv"
	"time"

	"igingest/pkg/errors"
	"igingest/pkg/hashtag"
	"igingest/pkg/logger"
	"igingest/pkg/models"
)

// Columns is the fixed CSV column contract; downstream consumers depend on
// this exact order.
var Columns = []string{
	"post_id",
	"user_id",
	"username",
	"followers",
	"following",
	"post_type",
	"post_timestamp",
	"likes",
	"comments",
	"caption",
	"hashtags",
}

// CSVSink writes each result as a flat CSV file, one row per post. The
// header row is always written, even for a profile with zero posts.
type CSVSink struct {
	dataDir string
	logger  logger.Logger
}

// NewCSVSink creates a CSV file sink rooted at dataDir.
func NewCSVSink(dataDir string, log logger.Logger) *CSVSink {
	if log == nil {
		log = logger.GetLogger()
	}
	return &CSVSink{dataDir: dataDir, logger: log}
}

// Persist writes "{username}_{timestamp}.csv" atomically.
func (s *CSVSink) Persist(ctx context.Context, result *models.IngestResult) error {
	if err := validateResult(result); err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Columns); err != nil {
		return errors.Newf(errors.ErrorTypeSink, "writing csv header: %v", err)
	}
	for _, post := range result.Posts {
		row := []string{
			post.PostID,
			post.UserID,
			post.Username,
			strconv.Itoa(post.Followers),
			strconv.Itoa(post.Following),
			string(post.PostType),
			post.PostTimestamp.Format(time.RFC3339),
			strconv.Itoa(post.Likes),
			strconv.Itoa(post.Comments),
			post.Caption,
			hashtag.Join(post.Hashtags),
		}
		if err := w.Write(row); err != nil {
			return errors.Newf(errors.ErrorTypeSink, "writing csv row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Newf(errors.ErrorTypeSink, "flushing csv: %v", err)
	}

	path := filepath.Join(s.dataDir, filename(result.Profile, "csv"))
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return err
	}

	s.logger.InfoWithFields("wrote csv file", map[string]interface{}{
		"path": path,
		"rows": len(result.Posts),
	})
	return nil
}
