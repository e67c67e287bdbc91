package scraper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igingest/pkg/errors"
	"igingest/pkg/logger"
	"igingest/pkg/models"
	"igingest/pkg/ratelimit"
)

// fakeStream yields a fixed sequence of items or errors
type fakeStream struct {
	steps  []fakeStep
	pos    int
	closed bool
}

type fakeStep struct {
	item RemoteItem
	err  error
}

func (f *fakeStream) Next(ctx context.Context) (RemoteItem, error) {
	if f.closed || f.pos >= len(f.steps) {
		return RemoteItem{}, ErrEndOfStream
	}
	step := f.steps[f.pos]
	f.pos++
	return step.item, step.err
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

func itemStep(id, caption string, video bool) fakeStep {
	return fakeStep{item: RemoteItem{
		ID:           id,
		IsVideo:      video,
		PublishedAt:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		LikeCount:    5,
		CommentCount: 2,
		Caption:      caption,
	}}
}

func errStep(err error) fakeStep {
	return fakeStep{err: err}
}

func testSnapshot() models.ProfileSnapshot {
	return models.ProfileSnapshot{
		UserID:    "u1",
		Username:  "testuser",
		Followers: 1000,
		Following: 50,
	}
}

func drain(t *testing.T, f *PostFetcher) []models.PostRecord {
	t.Helper()
	var records []models.PostRecord
	for {
		record, ok := f.Next(context.Background())
		if !ok {
			return records
		}
		records = append(records, record)
	}
}

func TestFetcherExhaustsStream(t *testing.T) {
	stream := &fakeStream{steps: []fakeStep{
		itemStep("p1", "hello #world", false),
		itemStep("p2", "", true),
	}}
	f := NewPostFetcher(stream, testSnapshot(), ratelimit.Noop{}, 0, logger.NewTestLogger())

	records := drain(t, f)
	require.Len(t, records, 2)
	assert.Equal(t, StatusExhausted, f.Status())
	assert.NoError(t, f.Err())
	assert.Equal(t, 2, f.Fetched())

	// Snapshot fields are denormalized onto every record
	assert.Equal(t, "p1", records[0].PostID)
	assert.Equal(t, "u1", records[0].UserID)
	assert.Equal(t, "testuser", records[0].Username)
	assert.Equal(t, 1000, records[0].Followers)
	assert.Equal(t, 50, records[0].Following)
	assert.Equal(t, models.PostTypeImage, records[0].PostType)
	assert.Equal(t, []string{"world"}, records[0].Hashtags)
	assert.Equal(t, models.PostTypeVideo, records[1].PostType)
	assert.Equal(t, []string{}, records[1].Hashtags)
}

func TestFetcherBoundedStop(t *testing.T) {
	var steps []fakeStep
	for i := 0; i < 10; i++ {
		steps = append(steps, itemStep(fmt.Sprintf("p%d", i), "", false))
	}
	stream := &fakeStream{steps: steps}
	f := NewPostFetcher(stream, testSnapshot(), ratelimit.Noop{}, 3, logger.NewTestLogger())

	records := drain(t, f)
	assert.Len(t, records, 3)
	assert.Equal(t, StatusBounded, f.Status())
	assert.NoError(t, f.Err())
}

func TestFetcherSkipsItemErrors(t *testing.T) {
	stream := &fakeStream{steps: []fakeStep{
		itemStep("p1", "", false),
		errStep(errors.New(errors.ErrorTypeItem, "malformed node")),
		itemStep("p2", "", false),
	}}
	f := NewPostFetcher(stream, testSnapshot(), ratelimit.Noop{}, 0, logger.NewTestLogger())

	records := drain(t, f)
	require.Len(t, records, 2)
	assert.Equal(t, "p1", records[0].PostID)
	assert.Equal(t, "p2", records[1].PostID)
	assert.Equal(t, StatusExhausted, f.Status())
	assert.Equal(t, 1, f.Skipped())
}

func TestFetcherSkipsItemsMissingID(t *testing.T) {
	stream := &fakeStream{steps: []fakeStep{
		itemStep("", "no id", false),
		itemStep("p1", "", false),
	}}
	f := NewPostFetcher(stream, testSnapshot(), ratelimit.Noop{}, 0, logger.NewTestLogger())

	records := drain(t, f)
	require.Len(t, records, 1)
	assert.Equal(t, "p1", records[0].PostID)
	assert.Equal(t, 1, f.Skipped())
}

func TestFetcherStreamError(t *testing.T) {
	streamErr := errors.New(errors.ErrorTypeStream, "pagination broke")
	stream := &fakeStream{steps: []fakeStep{
		itemStep("p1", "", false),
		itemStep("p2", "", false),
		errStep(streamErr),
		itemStep("p3", "never reached", false),
	}}
	f := NewPostFetcher(stream, testSnapshot(), ratelimit.Noop{}, 0, logger.NewTestLogger())

	records := drain(t, f)
	require.Len(t, records, 2)
	assert.Equal(t, "p1", records[0].PostID)
	assert.Equal(t, "p2", records[1].PostID)
	assert.Equal(t, StatusStreamError, f.Status())
	assert.Equal(t, streamErr, f.Err())
}

func TestFetcherImmediateStreamError(t *testing.T) {
	stream := &fakeStream{steps: []fakeStep{
		errStep(errors.New(errors.ErrorTypeNetwork, "connection refused")),
	}}
	f := NewPostFetcher(stream, testSnapshot(), ratelimit.Noop{}, 0, logger.NewTestLogger())

	records := drain(t, f)
	assert.Empty(t, records)
	assert.Equal(t, StatusStreamError, f.Status())
	assert.Error(t, f.Err())
}

func TestFetcherTerminalAfterStop(t *testing.T) {
	stream := &fakeStream{steps: []fakeStep{itemStep("p1", "", false)}}
	f := NewPostFetcher(stream, testSnapshot(), ratelimit.Noop{}, 0, logger.NewTestLogger())

	drain(t, f)
	for i := 0; i < 3; i++ {
		_, ok := f.Next(context.Background())
		assert.False(t, ok)
	}
	assert.Equal(t, 1, f.Fetched())
}

func TestFetcherWaitsBetweenItems(t *testing.T) {
	stream := &fakeStream{steps: []fakeStep{
		itemStep("p1", "", false),
		itemStep("p2", "", false),
	}}
	limiter := &countingLimiter{}
	f := NewPostFetcher(stream, testSnapshot(), limiter, 0, logger.NewTestLogger())

	drain(t, f)
	// One wait per stream pull, including the final end-of-stream probe
	assert.Equal(t, 3, limiter.waits)
}

type countingLimiter struct {
	waits int
}

func (c *countingLimiter) Wait()  { c.waits++ }
func (c *countingLimiter) Reset() {}
