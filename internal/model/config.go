package model

import "time"

// Config is the complete runtime configuration.
type Config struct {
	XAPI       XAPIConfig      `yaml:"xapi"`
	Scrape     ScrapeConfig    `yaml:"scrape"`
	Cache      CacheConfig     `yaml:"cache"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
	Output     OutputConfig    `yaml:"output"`
	LLM        LLMConfig       `yaml:"llm"`
	HTTPProxy  string          `yaml:"http_proxy,omitempty"`
	HTTPSProxy string          `yaml:"https_proxy,omitempty"`
}

// XAPIConfig configures the primary (credentialed) provider.
type XAPIConfig struct {
	// BearerToken comes from X_BEARER or the config file, never from
	// source. Empty token disables the provider and forces fallback.
	BearerToken string        `yaml:"bearer_token,omitempty"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ScrapeConfig configures the secondary (credential-free) provider.
type ScrapeConfig struct {
	Binary         string        `yaml:"binary"`          // Scraper executable on PATH
	ProfileTimeout time.Duration `yaml:"profile_timeout"` // Hard cap per profile fetch
	PostsTimeout   time.Duration `yaml:"posts_timeout"`   // Hard cap per posts fetch
}

// CacheConfig configures resolve-result memoization.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"` // Disk layer location; empty = memory only
	TTL     time.Duration `yaml:"ttl"`
}

// RateLimitConfig bounds outbound provider call volume.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// OutputConfig controls rendering behavior.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// LLMConfig configures the optional narrative summarizer.
type LLMConfig struct {
	Provider  string `yaml:"provider,omitempty"` // "openai" or "" (disabled)
	Model     string `yaml:"model,omitempty"`
	APIKey    string `yaml:"-"` // Environment only, never written to config files
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		XAPI: XAPIConfig{
			BaseURL: "https://api.twitter.com/2",
			Timeout: 20 * time.Second,
		},
		Scrape: ScrapeConfig{
			Binary:         "snscrape",
			ProfileTimeout: 30 * time.Second,
			PostsTimeout:   45 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             5,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 1000,
		},
	}
}
