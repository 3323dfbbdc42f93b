package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonar/birdwatch/internal/model"
	"github.com/okonar/birdwatch/internal/validate"
)

// stubClient is a canned provider for resolver tests.
type stubClient struct {
	name    string
	profile *model.AccountProfile
	posts   []model.Post
	calls   int
}

func (s *stubClient) Name() string { return s.name }

func (s *stubClient) Lookup(ctx context.Context, handle validate.Handle) (*model.AccountProfile, []model.Post) {
	s.calls++
	return s.profile, s.posts
}

func stubProfile(username string) *model.AccountProfile {
	return &model.AccountProfile{
		ID:        "1",
		Username:  username,
		CreatedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestResolver_PrimaryWins(t *testing.T) {
	primary := &stubClient{name: "x-api", profile: stubProfile("jack")}
	secondary := &stubClient{name: "snscrape", profile: stubProfile("jack")}
	resolver := NewResolver([]Client{primary, secondary}, nil, nil)

	profile, _, source := resolver.Resolve(context.Background(), "jack")

	require.NotNil(t, profile)
	assert.Equal(t, "x-api", source)
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, secondary.calls, "secondary must not be attempted after primary success")
}

func TestResolver_FallsBackOnPrimaryMiss(t *testing.T) {
	primary := &stubClient{name: "x-api"}
	secondary := &stubClient{name: "snscrape", profile: stubProfile("jack")}
	resolver := NewResolver([]Client{primary, secondary}, nil, nil)

	profile, _, source := resolver.Resolve(context.Background(), "jack")

	require.NotNil(t, profile)
	assert.Equal(t, "snscrape", source)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestResolver_AllProvidersFail(t *testing.T) {
	resolver := NewResolver([]Client{
		&stubClient{name: "x-api"},
		&stubClient{name: "snscrape"},
	}, nil, nil)

	profile, posts, source := resolver.Resolve(context.Background(), "ghost")

	assert.Nil(t, profile)
	assert.Empty(t, posts)
	assert.Empty(t, source)
}

func TestResolver_CapsPostBatch(t *testing.T) {
	posts := make([]model.Post, maxRecentPosts+25)
	primary := &stubClient{name: "x-api", profile: stubProfile("jack"), posts: posts}
	resolver := NewResolver([]Client{primary}, nil, nil)

	_, got, _ := resolver.Resolve(context.Background(), "jack")
	assert.Len(t, got, maxRecentPosts)
}
