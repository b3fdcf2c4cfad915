package models

// FeedPost is a synthetic entry of the social activity feed. Purely illustrative.
type FeedPost struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	MissionTitle string `json:"mission_title"`
	Timestamp    string `json:"timestamp"` // relative, e.g. "5 min ago"
	Likes        int    `json:"likes"`
	Message      string `json:"message,omitempty"`
}
