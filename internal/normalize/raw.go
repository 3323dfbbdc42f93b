package normalize

import (
	"bytes"
	"strconv"
	"strings"
)

// Count is a non-negative integer field that tolerates the shapes
// providers actually emit: numbers, numeric strings, and null. Missing
// or unparseable values coerce to zero instead of failing the decode.
type Count int

// UnmarshalJSON never returns an error; bad input is a zero count.
func (c *Count) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		*c = 0
		return nil
	}
	*c = Count(int(n))
	return nil
}

// Int returns the count as a plain non-negative int.
func (c Count) Int() int {
	if c < 0 {
		return 0
	}
	return int(c)
}

// Flag is a boolean field that tolerates bool, string, number, and null
// encodings. Anything other than an affirmative value is false.
type Flag bool

// UnmarshalJSON never returns an error; bad input is false.
func (f *Flag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.ToLower(string(bytes.TrimSpace(b))), `"`)
	switch s {
	case "true", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}

// Ident is an account or post ID that tolerates both string and number
// encodings (the scraper emits numeric IDs, the API emits strings).
type Ident string

// UnmarshalJSON never returns an error; null becomes the empty ID.
func (i *Ident) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "null" {
		s = ""
	}
	*i = Ident(s)
	return nil
}

func (i Ident) String() string {
	return string(i)
}

// XUser is the X API v2 user object as delivered inside the "data"
// envelope of /2/users/by/username/{username}.
type XUser struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	CreatedAt       string `json:"created_at"`
	Location        string `json:"location"`
	ProfileImageURL string `json:"profile_image_url"`
	Verified        Flag   `json:"verified"`
	Protected       Flag   `json:"protected"`
	PublicMetrics   struct {
		FollowersCount Count `json:"followers_count"`
		FollowingCount Count `json:"following_count"`
		TweetCount     Count `json:"tweet_count"`
	} `json:"public_metrics"`
}

// XTweet is the X API v2 tweet object from /2/users/{id}/tweets.
type XTweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	Source    string `json:"source"`
}

// ScrapedUser is one newline-delimited JSON user record from the
// scraping tool.
type ScrapedUser struct {
	ID              Ident  `json:"id"`
	Username        string `json:"username"`
	DisplayName     string `json:"displayname"`
	Created         string `json:"created"`
	Description     string `json:"description"`
	Location        string `json:"location"`
	ProfileImageURL string `json:"profileImageUrl"`
	Verified        Flag   `json:"verified"`
	Protected       Flag   `json:"protected"`
	FollowersCount  Count  `json:"followersCount"`
	FriendsCount    Count  `json:"friendsCount"`
	StatusesCount   Count  `json:"statusesCount"`
}

// ScrapedPost is one newline-delimited JSON post record from the
// scraping tool.
type ScrapedPost struct {
	ID              Ident  `json:"id"`
	RawContent      string `json:"rawContent"`
	RenderedContent string `json:"renderedContent"`
	Date            string `json:"date"`
	SourceLabel     string `json:"sourceLabel"`
}
