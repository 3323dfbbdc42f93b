package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonar/birdwatch/internal/model"
)

const scrapedUserLine = `{"id":12,"username":"jack","displayname":"jack",` +
	`"created":"2006-03-21T20:50:14+00:00","description":"bitcoin",` +
	`"profileImageUrl":"https://pbs.twimg.com/profile_images/abc.jpg",` +
	`"verified":true,"followersCount":6500000,"friendsCount":4500,"statusesCount":29000}`

func newTestScrapeClient(run runCommandFunc) *ScrapeClient {
	client := NewScrapeClient(model.ScrapeConfig{
		Binary:         "snscrape",
		ProfileTimeout: time.Second,
		PostsTimeout:   time.Second,
	}, nil)
	client.run = run
	return client
}

func TestScrapeClient_Lookup(t *testing.T) {
	var calls [][]string
	client := newTestScrapeClient(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls = append(calls, append([]string{name}, args...))
		if len(calls) == 1 {
			return []byte(scrapedUserLine + "\n"), nil
		}
		return []byte(strings.Join([]string{
			`{"id":100,"rawContent":"gm","date":"2023-06-01T12:00:00+00:00","sourceLabel":"Twitter Web App"}`,
			`not json at all`,
			`{"id":101,"rawContent":"https://example.com"}`,
		}, "\n")), nil
	})

	profile, posts := client.Lookup(context.Background(), "jack")

	require.NotNil(t, profile)
	assert.Equal(t, "jack", profile.Username)
	assert.Equal(t, 6500000, profile.FollowersCount)
	require.Len(t, posts, 2, "malformed lines are skipped, not fatal")
	assert.Equal(t, "gm", posts[0].Text)

	require.Len(t, calls, 2)
	assert.Equal(t, []string{"snscrape", "--jsonl", "--max-results", "1", "twitter-user", "jack"}, calls[0])
	assert.Equal(t, []string{"snscrape", "--jsonl", "--max-results", "100", "twitter-user", "jack"}, calls[1])
}

func TestScrapeClient_Lookup_CommandFails(t *testing.T) {
	client := newTestScrapeClient(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	})

	profile, posts := client.Lookup(context.Background(), "jack")
	assert.Nil(t, profile)
	assert.Nil(t, posts)
}

func TestScrapeClient_Lookup_EmptyOutput(t *testing.T) {
	client := newTestScrapeClient(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("  \n"), nil
	})

	profile, _ := client.Lookup(context.Background(), "jack")
	assert.Nil(t, profile, "empty scraper output is a fetch failure")
}

func TestScrapeClient_Lookup_MalformedUserRecord(t *testing.T) {
	client := newTestScrapeClient(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("{{{\n"), nil
	})

	profile, _ := client.Lookup(context.Background(), "jack")
	assert.Nil(t, profile)
}

func TestScrapeClient_Lookup_PostsFailureIsDegradedSuccess(t *testing.T) {
	var calls int
	client := newTestScrapeClient(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls++
		if calls == 1 {
			return []byte(scrapedUserLine), nil
		}
		return nil, errors.New("exit status 1")
	})

	profile, posts := client.Lookup(context.Background(), "jack")
	require.NotNil(t, profile)
	assert.Empty(t, posts)
}

func TestScrapeClient_Lookup_DeadlineApplied(t *testing.T) {
	client := newTestScrapeClient(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		deadline, ok := ctx.Deadline()
		require.True(t, ok, "subprocess context must carry a deadline")
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
		return []byte(scrapedUserLine), nil
	})

	client.Lookup(context.Background(), "jack")
}
