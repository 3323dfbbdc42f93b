package provider

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/okonar/birdwatch/internal/model"
	"github.com/okonar/birdwatch/internal/normalize"
	"github.com/okonar/birdwatch/internal/validate"
)

// SourceScrape is the provenance label for the subprocess provider.
const SourceScrape = "snscrape"

// runCommandFunc runs a subprocess and returns its stdout. Injectable
// for tests.
type runCommandFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// ScrapeClient is the secondary provider: a credential-free scraping
// tool invoked as a subprocess that emits newline-delimited JSON.
// Every invocation runs under a hard deadline; a stalled scraper is
// killed by the context rather than blocking the resolver.
type ScrapeClient struct {
	binary         string
	profileTimeout time.Duration
	postsTimeout   time.Duration
	logger         *zap.Logger
	run            runCommandFunc
}

// NewScrapeClient creates the secondary provider client.
func NewScrapeClient(cfg model.ScrapeConfig, logger *zap.Logger) *ScrapeClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScrapeClient{
		binary:         cfg.Binary,
		profileTimeout: cfg.ProfileTimeout,
		postsTimeout:   cfg.PostsTimeout,
		logger:         logger,
		run:            runCommand,
	}
}

// Name returns the provenance label.
func (c *ScrapeClient) Name() string {
	return SourceScrape
}

// Lookup implements Client. Non-zero exit, empty output, and malformed
// records all collapse into a nil profile.
func (c *ScrapeClient) Lookup(ctx context.Context, handle validate.Handle) (*model.AccountProfile, []model.Post) {
	raw, err := c.fetchProfile(ctx, handle)
	if err != nil {
		c.logger.Debug("scrape profile fetch failed", zap.String("handle", handle.String()), zap.Error(err))
		return nil, nil
	}

	profile, err := normalize.ProfileFromScrape(raw)
	if err != nil {
		c.logger.Debug("scrape profile unusable", zap.String("handle", handle.String()), zap.Error(err))
		return nil, nil
	}
	if profile.Username == "" {
		profile.Username = handle.String()
	}

	records, err := c.fetchRecentPosts(ctx, handle, maxRecentPosts)
	if err != nil {
		c.logger.Debug("scrape posts fetch failed", zap.String("handle", handle.String()), zap.Error(err))
		return profile, nil
	}

	return profile, normalize.PostsFromScrape(records)
}

// fetchProfile runs the scraper for a single user record.
func (c *ScrapeClient) fetchProfile(ctx context.Context, handle validate.Handle) (*normalize.ScrapedUser, error) {
	out, err := c.runScraper(ctx, c.profileTimeout, 1, handle)
	if err != nil {
		return nil, err
	}

	first, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	var user normalize.ScrapedUser
	if err := json.Unmarshal([]byte(first), &user); err != nil {
		return nil, fmt.Errorf("decode user record: %w", err)
	}
	return &user, nil
}

// fetchRecentPosts runs the scraper for the recent post history.
// Individual malformed lines are skipped, not fatal.
func (c *ScrapeClient) fetchRecentPosts(ctx context.Context, handle validate.Handle, limit int) ([]normalize.ScrapedPost, error) {
	out, err := c.runScraper(ctx, c.postsTimeout, limit, handle)
	if err != nil {
		return nil, err
	}

	var records []normalize.ScrapedPost
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record normalize.ScrapedPost
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// runScraper invokes the scraping binary under a hard deadline and
// returns its stdout. Empty output counts as a failure.
func (c *ScrapeClient) runScraper(ctx context.Context, timeout time.Duration, maxResults int, handle validate.Handle) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"--jsonl", "--max-results", strconv.Itoa(maxResults), "twitter-user", handle.String()}
	out, err := c.run(runCtx, c.binary, args...)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", c.binary, err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, fmt.Errorf("run %s: empty output", c.binary)
	}
	return out, nil
}
