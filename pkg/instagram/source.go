package instagram

import (
	"context"
	"time"

	"igingest/pkg/errors"
	"igingest/pkg/logger"
	"igingest/pkg/models"
	"igingest/pkg/scraper"
)

// Source adapts the API client to the scraper's remote-source interface.
type Source struct {
	client *Client
	logger logger.Logger
}

// NewSource creates a Source backed by the given client
func NewSource(client *Client, log logger.Logger) *Source {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Source{client: client, logger: log}
}

// ResolveProfile looks up a profile by username
func (s *Source) ResolveProfile(ctx context.Context, username string) (scraper.ProfileHandle, error) {
	resp, err := s.client.FetchUserProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	user := resp.Data.User
	if user.ID == "" {
		// The endpoint answers 200 with an empty user object for unknown
		// usernames.
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNotFound,
			Message: "profile does not exist",
		}
	}
	if user.IsPrivate {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeForbidden,
			Message: "profile is private",
		}
	}

	if user.Username == "" {
		user.Username = username
	}

	return &profileHandle{client: s.client, user: user}, nil
}

// profileHandle is a resolved profile plus the client to page its media.
type profileHandle struct {
	client *Client
	user   User
}

// Snapshot returns the profile counters as reported at resolution time
func (h *profileHandle) Snapshot() models.ProfileSnapshot {
	return models.ProfileSnapshot{
		UserID:     h.user.ID,
		Username:   h.user.Username,
		Followers:  h.user.EdgeFollowedBy.Count,
		Following:  h.user.EdgeFollow.Count,
		PostsCount: h.user.EdgeOwnerToTimelineMedia.Count,
	}
}

// PostStream opens the profile's paginated media stream
func (h *profileHandle) PostStream(ctx context.Context) (scraper.PostStream, error) {
	return &postStream{
		client:  h.client,
		userID:  h.user.ID,
		hasMore: true,
	}, nil
}

// postStream walks the media pages one cursor at a time, yielding one item
// per Next call.
type postStream struct {
	client  *Client
	userID  string
	buffer  []Edge
	cursor  string
	hasMore bool
	closed  bool
}

// Next returns the next media item in stream order
func (s *postStream) Next(ctx context.Context) (scraper.RemoteItem, error) {
	if s.closed {
		return scraper.RemoteItem{}, scraper.ErrEndOfStream
	}

	for len(s.buffer) == 0 {
		if !s.hasMore {
			return scraper.RemoteItem{}, scraper.ErrEndOfStream
		}

		resp, err := s.client.FetchUserMedia(ctx, s.userID, s.cursor)
		if err != nil {
			// Enumeration failure; the fetcher treats it as stream-level.
			return scraper.RemoteItem{}, err
		}

		media := resp.Data.User.EdgeOwnerToTimelineMedia
		s.buffer = media.Edges
		s.hasMore = media.PageInfo.HasNextPage
		s.cursor = media.PageInfo.EndCursor

		if len(s.buffer) == 0 && !s.hasMore {
			return scraper.RemoteItem{}, scraper.ErrEndOfStream
		}
	}

	node := s.buffer[0].Node
	s.buffer = s.buffer[1:]

	if node.Shortcode == "" {
		return scraper.RemoteItem{}, &errors.Error{
			Type:    errors.ErrorTypeItem,
			Message: "media node missing shortcode",
		}
	}

	return scraper.RemoteItem{
		ID:           node.Shortcode,
		IsVideo:      node.IsVideo,
		PublishedAt:  time.Unix(node.TakenAtTimestamp, 0).UTC(),
		LikeCount:    node.EdgeLikedBy.Count,
		CommentCount: node.EdgeMediaToComment.Count,
		Caption:      node.Caption(),
	}, nil
}

// Close releases the stream. Pagination stops; buffered items are dropped.
func (s *postStream) Close() error {
	s.closed = true
	s.buffer = nil
	return nil
}
