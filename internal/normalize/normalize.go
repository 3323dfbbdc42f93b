// Package normalize maps provider-native payloads into the canonical
// AccountProfile/Post schema. All field coercion lives here: counts
// default to zero when missing or unparseable, verification flags are
// coerced to booleans, and timestamps become timezone-aware instants.
// Downstream code never sees a provider-shaped record.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/okonar/birdwatch/internal/model"
)

// ErrBadTimestamp is returned when a creation timestamp is absent or
// unparseable. A profile without a usable creation instant is treated
// as an acquisition failure by the caller, not patched over.
var ErrBadTimestamp = errors.New("missing or unparseable creation timestamp")

// timeLayouts are tried in order when parsing provider timestamps.
// RFC3339 covers both the X API ("2009-06-02T20:12:29.000Z") and
// snscrape ("2009-06-02T20:12:29+00:00"); RubyDate covers the legacy
// v1.1 format still emitted by some scraper versions.
var timeLayouts = []string{
	time.RFC3339,
	time.RubyDate,
	"2006-01-02 15:04:05 -0700",
}

// ParseTimestamp parses a provider date string into a timezone-aware
// instant, preserving the original UTC offset.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBadTimestamp
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
}

// ProfileFromAPI normalizes an X API v2 user object.
func ProfileFromAPI(u *XUser) (*model.AccountProfile, error) {
	if u == nil {
		return nil, errors.New("nil user payload")
	}
	created, err := ParseTimestamp(u.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &model.AccountProfile{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    u.Name,
		Bio:            optional(u.Description),
		CreatedAt:      created,
		Location:       optional(u.Location),
		AvatarURL:      optional(u.ProfileImageURL),
		Verified:       bool(u.Verified),
		Protected:      bool(u.Protected),
		FollowersCount: u.PublicMetrics.FollowersCount.Int(),
		FollowingCount: u.PublicMetrics.FollowingCount.Int(),
		TweetCount:     u.PublicMetrics.TweetCount.Int(),
	}, nil
}

// PostsFromAPI normalizes X API v2 tweet objects. Tweets with bad
// timestamps keep a nil CreatedAt rather than being dropped.
func PostsFromAPI(tweets []XTweet) []model.Post {
	posts := make([]model.Post, 0, len(tweets))
	for _, t := range tweets {
		post := model.Post{
			ID:          t.ID,
			Text:        t.Text,
			SourceLabel: t.Source,
		}
		if created, err := ParseTimestamp(t.CreatedAt); err == nil {
			post.CreatedAt = &created
		}
		posts = append(posts, post)
	}
	return posts
}

// ProfileFromScrape normalizes a scraper user record (newline-delimited
// JSON). Scraped bios may carry HTML markup; it is stripped to plain
// text so scoring sees the same shape from both providers.
func ProfileFromScrape(u *ScrapedUser) (*model.AccountProfile, error) {
	if u == nil {
		return nil, errors.New("nil user payload")
	}
	created, err := ParseTimestamp(u.Created)
	if err != nil {
		return nil, err
	}

	return &model.AccountProfile{
		ID:             u.ID.String(),
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		Bio:            optional(stripMarkup(u.Description)),
		CreatedAt:      created,
		Location:       optional(u.Location),
		AvatarURL:      optional(u.ProfileImageURL),
		Verified:       bool(u.Verified),
		Protected:      bool(u.Protected),
		FollowersCount: u.FollowersCount.Int(),
		FollowingCount: u.FriendsCount.Int(),
		TweetCount:     u.StatusesCount.Int(),
	}, nil
}

// PostsFromScrape normalizes scraper post records.
func PostsFromScrape(records []ScrapedPost) []model.Post {
	posts := make([]model.Post, 0, len(records))
	for _, r := range records {
		text := r.RawContent
		if text == "" {
			text = stripMarkup(r.RenderedContent)
		}
		post := model.Post{
			ID:          r.ID.String(),
			Text:        text,
			SourceLabel: r.SourceLabel,
		}
		if r.Date != "" {
			if created, err := ParseTimestamp(r.Date); err == nil {
				post.CreatedAt = &created
			}
		}
		posts = append(posts, post)
	}
	return posts
}

// optional converts a provider string into the canonical nullable form:
// absent or empty text becomes nil so rules can rely on the pointer.
func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// stripMarkup flattens HTML fragments into plain text. Non-markup input
// passes through untouched; anything with tags or entities is parsed
// and reduced to its visible text nodes.
func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(buf.String()), " ")
}
