package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			"x api rfc3339 with millis",
			"2009-06-02T20:12:29.000Z",
			time.Date(2009, 6, 2, 20, 12, 29, 0, time.UTC),
		},
		{
			"snscrape offset",
			"2009-06-02T20:12:29+00:00",
			time.Date(2009, 6, 2, 20, 12, 29, 0, time.UTC),
		},
		{
			"legacy ruby date",
			"Tue Jun 02 20:12:29 +0000 2009",
			time.Date(2009, 6, 2, 20, 12, 29, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseTimestamp_KeepsOffset(t *testing.T) {
	got, err := ParseTimestamp("2023-03-01T09:00:00+05:30")
	require.NoError(t, err)
	_, offset := got.Zone()
	assert.Equal(t, 5*3600+30*60, offset)
}

func TestParseTimestamp_Bad(t *testing.T) {
	for _, input := range []string{"", "  ", "yesterday", "2023-99-99"} {
		_, err := ParseTimestamp(input)
		assert.ErrorIs(t, err, ErrBadTimestamp, "input %q", input)
	}
}

func TestProfileFromAPI(t *testing.T) {
	payload := `{
		"id": "12",
		"username": "jack",
		"name": "jack",
		"description": "bitcoin",
		"created_at": "2006-03-21T20:50:14.000Z",
		"location": "anywhere",
		"profile_image_url": "https://pbs.twimg.com/profile_images/abc.jpg",
		"verified": true,
		"protected": false,
		"public_metrics": {"followers_count": 6500000, "following_count": 4500, "tweet_count": 29000}
	}`
	var raw XUser
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	p, err := ProfileFromAPI(&raw)
	require.NoError(t, err)

	assert.Equal(t, "12", p.ID)
	assert.Equal(t, "jack", p.Username)
	require.NotNil(t, p.Bio)
	assert.Equal(t, "bitcoin", *p.Bio)
	require.NotNil(t, p.Location)
	assert.Equal(t, "anywhere", *p.Location)
	require.NotNil(t, p.AvatarURL)
	assert.True(t, p.Verified)
	assert.False(t, p.Protected)
	assert.Equal(t, 6500000, p.FollowersCount)
	assert.Equal(t, 4500, p.FollowingCount)
	assert.Equal(t, 29000, p.TweetCount)
	assert.Equal(t, 2006, p.CreatedAt.Year())
}

func TestProfileFromAPI_Defaults(t *testing.T) {
	// Sparse payload: everything optional omitted.
	var raw XUser
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","username":"x","created_at":"2020-01-01T00:00:00Z"}`), &raw))

	p, err := ProfileFromAPI(&raw)
	require.NoError(t, err)

	assert.Nil(t, p.Bio, "missing bio must be nil, not empty string")
	assert.Nil(t, p.AvatarURL)
	assert.Nil(t, p.Location)
	assert.Zero(t, p.FollowersCount)
	assert.Zero(t, p.FollowingCount)
	assert.Zero(t, p.TweetCount)
	assert.False(t, p.Verified)
}

func TestProfileFromAPI_BadTimestamp(t *testing.T) {
	raw := &XUser{ID: "1", Username: "x", CreatedAt: "not-a-date"}
	_, err := ProfileFromAPI(raw)
	assert.ErrorIs(t, err, ErrBadTimestamp)
}

func TestProfileFromScrape(t *testing.T) {
	payload := `{
		"id": 12,
		"username": "jack",
		"displayname": "jack",
		"created": "2006-03-21T20:50:14+00:00",
		"description": "bio with <a href=\"https://t.co/x\">link</a> &amp; entities",
		"profileImageUrl": "https://pbs.twimg.com/profile_images/abc.jpg",
		"verified": "true",
		"followersCount": "6500000",
		"friendsCount": 4500,
		"statusesCount": null
	}`
	var raw ScrapedUser
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	p, err := ProfileFromScrape(&raw)
	require.NoError(t, err)

	assert.Equal(t, "12", p.ID, "numeric scraper IDs coerce to strings")
	require.NotNil(t, p.Bio)
	assert.Equal(t, "bio with link & entities", *p.Bio, "markup stripped from scraped bios")
	assert.True(t, p.Verified, "string flags coerce to booleans")
	assert.Equal(t, 6500000, p.FollowersCount, "string counts coerce to ints")
	assert.Equal(t, 4500, p.FollowingCount)
	assert.Zero(t, p.TweetCount, "null counts default to zero")
	assert.Nil(t, p.Location)
}

func TestPostsFromScrape(t *testing.T) {
	records := []ScrapedPost{
		{ID: "1", RawContent: "hello world", Date: "2023-06-01T12:00:00+00:00", SourceLabel: "Twitter Web App"},
		{ID: "2", RenderedContent: "check <b>this</b> out"},
		{ID: "3", Date: "garbage"},
	}

	posts := PostsFromScrape(records)
	require.Len(t, posts, 3)

	assert.Equal(t, "hello world", posts[0].Text)
	require.NotNil(t, posts[0].CreatedAt)
	assert.Equal(t, "Twitter Web App", posts[0].SourceLabel)

	assert.Equal(t, "check this out", posts[1].Text, "rendered content falls back with markup stripped")
	assert.Nil(t, posts[1].CreatedAt)

	assert.Empty(t, posts[2].Text)
	assert.Nil(t, posts[2].CreatedAt, "bad post dates stay nil instead of failing")
}

func TestPostsFromAPI(t *testing.T) {
	tweets := []XTweet{
		{ID: "100", Text: "gm", CreatedAt: "2023-06-01T12:00:00.000Z", Source: "Twitter for iPhone"},
		{ID: "101", Text: "no date"},
	}

	posts := PostsFromAPI(tweets)
	require.Len(t, posts, 2)
	require.NotNil(t, posts[0].CreatedAt)
	assert.Equal(t, "Twitter for iPhone", posts[0].SourceLabel)
	assert.Nil(t, posts[1].CreatedAt)
}

func TestStripMarkup_PlainPassthrough(t *testing.T) {
	assert.Equal(t, "no markup here", stripMarkup("no markup here"))
}
