package models

import "time"

// PostType identifies the media kind of a post.
type PostType string

const (
	PostTypeImage PostType = "image"
	PostTypeVideo PostType = "video"
)

// Outcome classifies how far one profile ingestion attempt got.
type Outcome string

const (
	// OutcomeComplete means every requested post was fetched.
	OutcomeComplete Outcome = "complete"
	// OutcomePartial means the stream failed after at least one post was
	// fetched; the result keeps the prefix collected so far.
	OutcomePartial Outcome = "partial"
	// OutcomeFailed means no usable data was collected.
	OutcomeFailed Outcome = "failed"
)

// ProfileSnapshot captures a profile's identity and aggregate counters at
// scrape time. Immutable once constructed.
type ProfileSnapshot struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Followers  int       `json:"followers"`
	Following  int       `json:"following"`
	PostsCount int       `json:"posts_count"`
	ScrapedAt  time.Time `json:"scraped_at"`
}

// PostRecord is one normalized post. The user_id/username/followers/following
// fields are copied from the owning ProfileSnapshot when the fetch starts and
// stay frozen even if the live profile changes mid-scrape.
type PostRecord struct {
	PostID        string    `json:"post_id"`
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	Followers     int       `json:"followers"`
	Following     int       `json:"following"`
	PostType      PostType  `json:"post_type"`
	PostTimestamp time.Time `json:"post_timestamp"`
	Likes         int       `json:"likes"`
	Comments      int       `json:"comments"`
	Caption       string    `json:"caption"`
	Hashtags      []string  `json:"hashtags"`
}

// IngestResult is the output of one profile ingestion attempt. Posts preserve
// the remote stream's order. Err carries the terminal or stream-level error
// for Partial and Failed outcomes.
type IngestResult struct {
	Profile *ProfileSnapshot
	Posts   []PostRecord
	Outcome Outcome
	Err     error
}
