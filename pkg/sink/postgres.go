package sink

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"igingest/pkg/errors"
	"igingest/pkg/hashtag"
	"igingest/pkg/logger"
	"igingest/pkg/models"
)

// PostgresSink writes post records into a single posts table, keyed by
// post_id. Re-ingesting a profile is idempotent: rows that already exist are
// left untouched.
type PostgresSink struct {
	pool   *pgxpool.Pool
	schema string
	logger logger.Logger
}

// NewPostgresSink opens a connection pool for dsn and ensures the posts
// table exists under schema.
func NewPostgresSink(ctx context.Context, dsn, schema string, log logger.Logger) (*PostgresSink, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	if schema == "" {
		schema = "public"
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeSink, "parsing postgres dsn: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeSink, "opening postgres pool: %v", err)
	}

	s := &PostgresSink{pool: pool, schema: schema, logger: log}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresSink) table() string {
	return fmt.Sprintf(`"%s".posts`, s.schema)
}

func (s *PostgresSink) ensureSchema(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS ` + s.table() + ` (
		post_id        TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		username       TEXT NOT NULL,
		followers      BIGINT NOT NULL,
		following      BIGINT NOT NULL,
		post_type      TEXT NOT NULL,
		post_timestamp TIMESTAMPTZ NOT NULL,
		likes          BIGINT NOT NULL,
		comments       BIGINT NOT NULL,
		caption        TEXT NOT NULL DEFAULT '',
		hashtags       TEXT NOT NULL DEFAULT '',
		scraped_at     TIMESTAMPTZ NOT NULL
	)`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return errors.Newf(errors.ErrorTypeSink, "ensuring posts table: %v", err)
	}
	return nil
}

// Persist inserts every post in the result, skipping rows whose post_id is
// already present.
func (s *PostgresSink) Persist(ctx context.Context, result *models.IngestResult) error {
	if err := validateResult(result); err != nil {
		return err
	}
	if len(result.Posts) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, post := range result.Posts {
		b.Queue(
			`INSERT INTO `+s.table()+`
			(post_id, user_id, username, followers, following,
			 post_type, post_timestamp, likes, comments, caption, hashtags, scraped_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			ON CONFLICT (post_id) DO NOTHING`,
			post.PostID, post.UserID, post.Username, post.Followers, post.Following,
			string(post.PostType), post.PostTimestamp, post.Likes, post.Comments,
			post.Caption, hashtag.Join(post.Hashtags), result.Profile.ScrapedAt,
		)
	}

	br := s.pool.SendBatch(ctx, b)
	inserted := 0
	for range result.Posts {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return errors.Newf(errors.ErrorTypeSink, "inserting posts: %v", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return errors.Newf(errors.ErrorTypeSink, "closing batch: %v", err)
	}

	s.logger.InfoWithFields("wrote posts to postgres", map[string]interface{}{
		"username": result.Profile.Username,
		"queued":   len(result.Posts),
		"inserted": inserted,
	})
	return nil
}

// Close releases the connection pool.
func (s *PostgresSink) Close() {
	s.pool.Close()
}
