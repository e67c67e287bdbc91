package sink

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"igingest/pkg/errors"
	"igingest/pkg/hashtag"
	"igingest/pkg/logger"
	"igingest/pkg/models"
)

// document is the on-disk JSON shape: the profile snapshot plus its posts.
type document struct {
	Profile profileDocument `json:"profile"`
	Posts   []postDocument  `json:"posts"`
}

type profileDocument struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Followers  int    `json:"followers"`
	Following  int    `json:"following"`
	PostsCount int    `json:"posts_count"`
	ScrapedAt  string `json:"scraped_at"`
}

type postDocument struct {
	PostID        string `json:"post_id"`
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	Followers     int    `json:"followers"`
	Following     int    `json:"following"`
	PostType      string `json:"post_type"`
	PostTimestamp string `json:"post_timestamp"`
	Likes         int    `json:"likes"`
	Comments      int    `json:"comments"`
	Caption       string `json:"caption"`
	Hashtags      string `json:"hashtags"`
}

// JSONSink writes each result as a single pretty-printed JSON document under
// the data directory.
type JSONSink struct {
	dataDir string
	logger  logger.Logger
}

// NewJSONSink creates a JSON file sink rooted at dataDir.
func NewJSONSink(dataDir string, log logger.Logger) *JSONSink {
	if log == nil {
		log = logger.GetLogger()
	}
	return &JSONSink{dataDir: dataDir, logger: log}
}

// Persist writes "{username}_{timestamp}.json" atomically.
func (s *JSONSink) Persist(ctx context.Context, result *models.IngestResult) error {
	if err := validateResult(result); err != nil {
		return err
	}

	doc := document{
		Profile: profileDocument{
			UserID:     result.Profile.UserID,
			Username:   result.Profile.Username,
			Followers:  result.Profile.Followers,
			Following:  result.Profile.Following,
			PostsCount: result.Profile.PostsCount,
			ScrapedAt:  result.Profile.ScrapedAt.Format(time.RFC3339),
		},
		Posts: make([]postDocument, 0, len(result.Posts)),
	}
	for _, post := range result.Posts {
		doc.Posts = append(doc.Posts, postDocument{
			PostID:        post.PostID,
			UserID:        post.UserID,
			Username:      post.Username,
			Followers:     post.Followers,
			Following:     post.Following,
			PostType:      string(post.PostType),
			PostTimestamp: post.PostTimestamp.Format(time.RFC3339),
			Likes:         post.Likes,
			Comments:      post.Comments,
			Caption:       post.Caption,
			Hashtags:      hashtag.Join(post.Hashtags),
		})
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return errors.Newf(errors.ErrorTypeSink, "encoding json: %v", err)
	}

	path := filepath.Join(s.dataDir, filename(result.Profile, "json"))
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}

	s.logger.InfoWithFields("wrote json document", map[string]interface{}{
		"path":  path,
		"posts": len(result.Posts),
	})
	return nil
}
