package llm

import (
	"context"
	"fmt"

	"github.com/okonar/birdwatch/internal/model"
)

// Summarizer wraps a Provider and produces the report's narrative
// section. A nil or unavailable provider degrades to "disabled" rather
// than failing the analysis.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer from configuration. A disabled
// configuration yields a summarizer whose IsEnabled reports false.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	return &Summarizer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the configured provider's name, or "" when
// disabled.
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary narrates a finished report. The summary is attached
// by the caller; it never alters the report's score or reasons.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if !s.IsEnabled() {
		return &model.LLMSummary{Enabled: false}, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return nil, fmt.Errorf("provider %s is not available", s.provider.Name())
	}

	resp, err := s.provider.Narrate(ctx, NarrateRequest{
		Report:    report,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("narrate: %w", err)
	}

	return &model.LLMSummary{
		Enabled:   true,
		Provider:  s.provider.Name(),
		Model:     resp.Model,
		SummaryMD: resp.Summary,
	}, nil
}
