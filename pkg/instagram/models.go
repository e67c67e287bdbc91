package instagram

// ProfileResponse represents the top-level response from the profile and
// media endpoints
type ProfileResponse struct {
	RequiresToLogin bool   `json:"requires_to_login"`
	Data            Data   `json:"data"`
	Status          string `json:"status"`
}

// Data wraps the user information in the response
type Data struct {
	User User `json:"user"`
}

// User represents a user profile
type User struct {
	ID                       string                   `json:"id"`
	Username                 string                   `json:"username"`
	IsPrivate                bool                     `json:"is_private"`
	EdgeFollowedBy           EdgeCount                `json:"edge_followed_by"`
	EdgeFollow               EdgeCount                `json:"edge_follow"`
	EdgeOwnerToTimelineMedia EdgeOwnerToTimelineMedia `json:"edge_owner_to_timeline_media"`
}

// EdgeCount wraps a bare counter edge
type EdgeCount struct {
	Count int `json:"count"`
}

// EdgeOwnerToTimelineMedia contains the user's media information
type EdgeOwnerToTimelineMedia struct {
	Count    int      `json:"count"`
	PageInfo PageInfo `json:"page_info"`
	Edges    []Edge   `json:"edges"`
}

// PageInfo contains pagination information
type PageInfo struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor"`
}

// Edge wraps a single media node
type Edge struct {
	Node Node `json:"node"`
}

// Node represents a single media item (image or video)
type Node struct {
	ID                 string             `json:"id"`
	Shortcode          string             `json:"shortcode"`
	IsVideo            bool               `json:"is_video"`
	TakenAtTimestamp   int64              `json:"taken_at_timestamp"`
	EdgeMediaToCaption EdgeMediaToCaption `json:"edge_media_to_caption"`
	EdgeLikedBy        EdgeCount          `json:"edge_liked_by"`
	EdgeMediaToComment EdgeCount          `json:"edge_media_to_comment"`
}

// EdgeMediaToCaption holds the caption edges of a media node
type EdgeMediaToCaption struct {
	Edges []CaptionEdge `json:"edges"`
}

// CaptionEdge wraps one caption text node
type CaptionEdge struct {
	Node CaptionNode `json:"node"`
}

// CaptionNode holds the caption text
type CaptionNode struct {
	Text string `json:"text"`
}

// Caption returns the node's caption text, or "" when absent
func (n *Node) Caption() string {
	if len(n.EdgeMediaToCaption.Edges) == 0 {
		return ""
	}
	return n.EdgeMediaToCaption.Edges[0].Node.Text
}
