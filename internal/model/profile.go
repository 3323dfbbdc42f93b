package model

import "time"

// AccountProfile is the canonical, provider-independent account schema.
// Every raw payload is normalized into this shape before anything else
// looks at it: counts default to zero, and optional text fields are nil
// pointers (not empty strings) so scoring can tell "absent" from "empty".
type AccountProfile struct {
	ID          string    `json:"id"`                   // Provider-assigned account ID
	Username    string    `json:"username"`             // Handle without the leading @
	DisplayName string    `json:"display_name"`         // Free-form display name
	Bio         *string   `json:"bio,omitempty"`        // nil when the source omitted it
	CreatedAt   time.Time `json:"created_at"`           // Timezone-aware creation instant
	Location    *string   `json:"location,omitempty"`   // nil when the source omitted it
	AvatarURL   *string   `json:"avatar_url,omitempty"` // nil when the source omitted it
	Verified    bool      `json:"verified"`
	Protected   bool      `json:"protected"`

	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	TweetCount     int `json:"tweet_count"`
}

// Post is a single canonical post from the account's recent history.
type Post struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`                   // Empty string when the source omitted it
	CreatedAt   *time.Time `json:"created_at,omitempty"`   // nil when unknown
	SourceLabel string     `json:"source_label,omitempty"` // Posting client, e.g. "Twitter Web App"
}
