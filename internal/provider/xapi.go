package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/okonar/birdwatch/internal/model"
	"github.com/okonar/birdwatch/internal/normalize"
	"github.com/okonar/birdwatch/internal/util"
	"github.com/okonar/birdwatch/internal/validate"
)

// SourceXAPI is the provenance label for the credentialed API provider.
const SourceXAPI = "x-api"

// userFields and tweetFields select the payload fields the normalizer
// consumes.
const (
	userFields  = "created_at,description,id,location,name,profile_image_url,protected,public_metrics,url,username,verified"
	tweetFields = "created_at,public_metrics,source"
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 4 << 20

// XAPIClient is the primary provider: the structured X API v2, reached
// with a bearer credential. An absent credential disables the client
// (every Lookup misses), which is indistinguishable from any other
// fetch failure and simply triggers fallback.
type XAPIClient struct {
	httpClient *http.Client
	baseURL    string
	bearer     string
	logger     *zap.Logger
}

// NewXAPIClient creates the primary provider client.
func NewXAPIClient(cfg model.XAPIConfig, httpProxy, httpsProxy string, logger *zap.Logger) *XAPIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &XAPIClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpProxy, httpsProxy),
			},
		},
		baseURL: cfg.BaseURL,
		bearer:  cfg.BearerToken,
		logger:  logger,
	}
}

// Name returns the provenance label.
func (c *XAPIClient) Name() string {
	return SourceXAPI
}

// Lookup implements Client. All transport and payload errors are
// converted to a nil profile; a profile without its recent posts is
// still a success.
func (c *XAPIClient) Lookup(ctx context.Context, handle validate.Handle) (*model.AccountProfile, []model.Post) {
	if c.bearer == "" {
		c.logger.Debug("x-api disabled: no bearer token configured")
		return nil, nil
	}

	raw, err := c.fetchProfile(ctx, handle)
	if err != nil {
		c.logger.Debug("x-api profile fetch failed", zap.String("handle", handle.String()), zap.Error(err))
		return nil, nil
	}

	profile, err := normalize.ProfileFromAPI(raw)
	if err != nil {
		c.logger.Debug("x-api profile unusable", zap.String("handle", handle.String()), zap.Error(err))
		return nil, nil
	}

	tweets, err := c.fetchRecentPosts(ctx, profile.ID, maxRecentPosts)
	if err != nil {
		// Degraded success: the scorer treats an empty post list as
		// insufficient data, not as a failed request.
		c.logger.Debug("x-api posts fetch failed", zap.String("handle", handle.String()), zap.Error(err))
		return profile, nil
	}

	return profile, normalize.PostsFromAPI(tweets)
}

// fetchProfile performs the profile-lookup call.
func (c *XAPIClient) fetchProfile(ctx context.Context, handle validate.Handle) (*normalize.XUser, error) {
	endpoint := fmt.Sprintf("%s/users/by/username/%s?user.fields=%s",
		c.baseURL, url.PathEscape(handle.String()), userFields)

	var envelope struct {
		Data *normalize.XUser `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("response has no data envelope")
	}
	return envelope.Data, nil
}

// fetchRecentPosts performs the tweets-by-user call.
func (c *XAPIClient) fetchRecentPosts(ctx context.Context, userID string, limit int) ([]normalize.XTweet, error) {
	endpoint := fmt.Sprintf("%s/users/%s/tweets?max_results=%d&tweet.fields=%s",
		c.baseURL, url.PathEscape(userID), limit, tweetFields)

	var envelope struct {
		Data []normalize.XTweet `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// getJSON performs an authorized GET and decodes the JSON body.
func (c *XAPIClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
