// Package llm generates an optional narrative summary of a finished
// report. Summaries are produced strictly after scoring and can never
// feed back into it: the rule engine alone decides the score.
package llm

import (
	"context"
	"fmt"

	"github.com/okonar/birdwatch/internal/model"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Narrate generates a plain-language summary of the report.
	Narrate(ctx context.Context, req NarrateRequest) (*NarrateResponse, error)

	// IsAvailable checks if the provider is properly configured and
	// accessible.
	IsAvailable(ctx context.Context) bool
}

// NarrateRequest contains the input for summary generation.
type NarrateRequest struct {
	// Report is the finished, already-scored report to narrate.
	Report model.Report

	// Prompt is an optional custom prompt (if empty, use default).
	Prompt string

	// Model is the specific model to use (provider-specific).
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// NarrateResponse contains the generated summary.
type NarrateResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider name: "openai" or "" (disabled).
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for the hosted provider.
	APIKey string

	// BaseURL for custom or self-hosted endpoints.
	BaseURL string

	// Timeout for API requests, in seconds.
	Timeout int

	// MaxTokens for response generation.
	MaxTokens int
}

// DefaultConfig returns sensible defaults with the narrator disabled.
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// BuildPrompt constructs the default narration prompt. The model is
// given only the already-computed rule outcomes and is told not to
// re-judge the account.
func BuildPrompt(report model.Report) string {
	prompt := fmt.Sprintf(`You are writing a short plain-language summary of a rule-based
fake-account analysis. The score and findings below are final: do not
re-score, second-guess, or add findings of your own.

Account: @%s (%s)
Fakeness score: %d/100 (%s risk)
Account age: %d days
Data source: %s

Warning signs found:
%s
Healthy signals found:
%s
Write 2-4 sentences for a non-technical reader explaining what the
score means and which findings drove it. Do not give advice beyond
what the findings support.`,
		report.Username, report.DisplayName,
		report.Score, report.RiskLevel,
		report.AccountAgeDays, report.Source,
		bulleted(report.BadReasons, "(none)"),
		bulleted(report.GoodReasons, "(none)"))

	return prompt
}

func bulleted(items []string, empty string) string {
	if len(items) == 0 {
		return empty + "\n"
	}
	out := ""
	for _, item := range items {
		out += "- " + item + "\n"
	}
	return out
}
