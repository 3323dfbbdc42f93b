// Package pipeline orchestrates a complete analysis request:
// validate -> resolve -> score -> assemble -> render.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/okonar/birdwatch/internal/cache"
	"github.com/okonar/birdwatch/internal/llm"
	"github.com/okonar/birdwatch/internal/model"
	"github.com/okonar/birdwatch/internal/provider"
	"github.com/okonar/birdwatch/internal/report"
	"github.com/okonar/birdwatch/internal/score"
	"github.com/okonar/birdwatch/internal/validate"
	"github.com/okonar/birdwatch/internal/worker"
)

// ErrAccountNotFound is returned when every provider came up empty:
// the account does not exist or no source could be reached. It is a
// per-request outcome, never fatal to the process.
var ErrAccountNotFound = errors.New("account not found: no provider returned data for this handle")

// accountResolver is what the pipeline needs from the resolver layer.
type accountResolver interface {
	Resolve(ctx context.Context, handle validate.Handle) (*model.AccountProfile, []model.Post, string)
}

// Pipeline wires the analysis stages together.
type Pipeline struct {
	resolver   accountResolver
	scorer     *score.Scorer
	renderer   *report.Renderer
	cache      cache.Cache // nil when caching is disabled
	cacheTTL   time.Duration
	summarizer *llm.Summarizer // nil when narration is disabled
	logger     *zap.Logger
}

// NewPipeline creates a pipeline from configuration.
func NewPipeline(cfg *model.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	clients := []provider.Client{
		provider.NewXAPIClient(cfg.XAPI, cfg.HTTPProxy, cfg.HTTPSProxy, logger),
		provider.NewScrapeClient(cfg.Scrape, logger),
	}

	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			resultCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			resultCache = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		}
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		resolver:   provider.NewResolver(clients, limiter, logger),
		scorer:     score.NewScorer(),
		renderer:   report.NewRenderer(cfg.Output.IncludeFooter),
		cache:      resultCache,
		cacheTTL:   cfg.Cache.TTL,
		summarizer: summarizer,
		logger:     logger,
	}
}

// resolvedAccount is the cached form of one resolve outcome.
type resolvedAccount struct {
	Profile *model.AccountProfile `json:"profile"`
	Posts   []model.Post          `json:"posts"`
	Source  string                `json:"source"`
}

// Analyze runs the full pipeline for one raw handle. Invalid handles
// fail fast with validate.ErrInvalidHandle; a handle no provider can
// satisfy returns ErrAccountNotFound.
func (p *Pipeline) Analyze(ctx context.Context, rawHandle string) (*model.Report, error) {
	handle, err := validate.ParseHandle(rawHandle)
	if err != nil {
		return nil, err
	}

	resolved, err := p.resolve(ctx, handle)
	if err != nil {
		return nil, err
	}

	result := p.scorer.Score(resolved.Profile, resolved.Posts)
	rep := report.Assemble(resolved.Profile, result, resolved.Source, time.Now().UTC())

	// Narration runs last and only decorates the finished report.
	if p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, *rep)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM summary generation failed: %v\n", err)
		} else {
			rep.LLM = summary
		}
	}

	return rep, nil
}

// resolve answers from the memoization cache when possible, otherwise
// asks the providers and caches the outcome.
func (p *Pipeline) resolve(ctx context.Context, handle validate.Handle) (*resolvedAccount, error) {
	key := cache.Key(handle.String())

	if p.cache != nil {
		if data, found := p.cache.Get(key); found {
			var cached resolvedAccount
			if err := json.Unmarshal(data, &cached); err == nil && cached.Profile != nil {
				p.logger.Debug("resolve cache hit", zap.String("handle", handle.String()))
				return &cached, nil
			}
		}
	}

	profile, posts, source := p.resolver.Resolve(ctx, handle)
	if profile == nil {
		return nil, ErrAccountNotFound
	}

	resolved := &resolvedAccount{Profile: profile, Posts: posts, Source: source}

	if p.cache != nil {
		if data, err := json.Marshal(resolved); err == nil {
			if err := p.cache.Set(key, data, p.cacheTTL); err != nil {
				p.logger.Debug("resolve cache write failed", zap.Error(err))
			}
		}
	}

	return resolved, nil
}

// RenderReport writes the requested artifacts and prints the stdout
// summary.
func (p *Pipeline) RenderReport(rep *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(rep, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(rep, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(os.Stdout, rep)

	return nil
}
