package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/okonar/birdwatch/internal/model"
	"github.com/okonar/birdwatch/internal/pipeline"
	"github.com/okonar/birdwatch/internal/validate"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	scrapeBin   string
	cacheDir    string
	noCache     bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
	httpProxy   string
	httpsProxy  string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <handle>",
	Short: "Analyze a single handle and generate a fakeness report",
	Long: `Analyze fetches an account's public profile and recent posts,
falling back from the X API to a scraper when needed, then scores it
with deterministic rules and writes an itemized report.

Example:
  birdwatch analyze jack
  birdwatch analyze @jack --json report.json --md report.md
  birdwatch analyze jack --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// Acquisition flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&scrapeBin, "scraper", "snscrape", "scraping binary used by the fallback provider")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh lookup)")
	analyzeCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist lookup cache to this directory")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	analyzeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative summary")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	handle := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: @%s\n", handle)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg, logger)

	rep, err := p.Analyze(ctx, handle)
	if errors.Is(err, validate.ErrInvalidHandle) {
		return fmt.Errorf("invalid handle %q: use 1-15 letters, digits or underscores", handle)
	}
	if errors.Is(err, pipeline.ErrAccountNotFound) {
		return fmt.Errorf("could not fetch @%s: the account may not exist, or both data sources failed", handle)
	}
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Resolved via %s\n", rep.Source)
		fmt.Fprintf(os.Stderr, "✓ Fakeness score: %d/100 (%s risk)\n", rep.Score, rep.RiskLevel)
		if rep.LLM != nil && rep.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated narrative using %s/%s\n", rep.LLM.Provider, rep.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(rep, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig merges defaults, config file values, environment, and
// flags into the runtime configuration. A flag overrides the file only
// when it was explicitly set on the command line.
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()
	applyFileConfig(cfg)

	if bearer := os.Getenv("X_BEARER"); bearer != "" {
		cfg.XAPI.BearerToken = bearer
	}

	flags := cmd.Flags()
	if flags.Changed("scraper") {
		cfg.Scrape.Binary = scrapeBin
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("cache-dir") {
		cfg.Cache.Dir = cacheDir
	}
	if flags.Changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}
	if flags.Changed("http-proxy") {
		cfg.HTTPProxy = httpProxy
	}
	if flags.Changed("https-proxy") {
		cfg.HTTPSProxy = httpsProxy
	}
	cfg.Output.Verbose = verbose

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
	}

	// Credential lookup keys off the effective provider, whether it
	// came from a flag or the config file.
	if cfg.LLM.Provider == "openai" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	return cfg, nil
}

// applyFileConfig overlays values from the viper-loaded config file.
// Only keys present in the file override the defaults.
func applyFileConfig(cfg *model.Config) {
	if viper.IsSet("xapi.bearer_token") {
		cfg.XAPI.BearerToken = viper.GetString("xapi.bearer_token")
	}
	if viper.IsSet("xapi.base_url") {
		cfg.XAPI.BaseURL = viper.GetString("xapi.base_url")
	}
	if viper.IsSet("xapi.timeout") {
		cfg.XAPI.Timeout = viper.GetDuration("xapi.timeout")
	}
	if viper.IsSet("scrape.binary") {
		cfg.Scrape.Binary = viper.GetString("scrape.binary")
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if viper.IsSet("cache.dir") {
		cfg.Cache.Dir = viper.GetString("cache.dir")
	}
	if viper.IsSet("cache.ttl") {
		cfg.Cache.TTL = viper.GetDuration("cache.ttl")
	}
	if viper.IsSet("rate_limit.requests_per_second") {
		cfg.RateLimit.RequestsPerSecond = viper.GetFloat64("rate_limit.requests_per_second")
	}
	if viper.IsSet("rate_limit.burst") {
		cfg.RateLimit.Burst = viper.GetInt("rate_limit.burst")
	}
	if viper.IsSet("output.include_footer") {
		cfg.Output.IncludeFooter = viper.GetBool("output.include_footer")
	}
	if viper.IsSet("llm.provider") {
		cfg.LLM.Provider = viper.GetString("llm.provider")
	}
	if viper.IsSet("llm.model") {
		cfg.LLM.Model = viper.GetString("llm.model")
	}
	if viper.IsSet("http_proxy") {
		cfg.HTTPProxy = viper.GetString("http_proxy")
	}
	if viper.IsSet("https_proxy") {
		cfg.HTTPSProxy = viper.GetString("https_proxy")
	}
}

// newLogger builds the structured logger used by the internals.
// User-facing progress goes to stderr separately.
func newLogger() *zap.Logger {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}
	return zap.NewNop()
}
