package model

import "time"

// Reasons is the ordered good/bad reason trail produced by the scorer.
// Every evaluated rule appends to exactly one of the two lists, at most
// once, so the final score is fully reconstructible from the trail.
type Reasons struct {
	Good []string `json:"good"`
	Bad  []string `json:"bad"`
}

// ScoreResult is the scorer's verdict for one account.
type ScoreResult struct {
	Score          int     `json:"score"`            // Fakeness score, always within [0, 100]
	AccountAgeDays int     `json:"account_age_days"` // Whole days since account creation, >= 0
	Reasons        Reasons `json:"reasons"`
}

// RiskLevel bands a score for display purposes.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"    // score < 30
	RiskMedium RiskLevel = "medium" // 30 <= score < 60
	RiskHigh   RiskLevel = "high"   // score >= 60
)

// RiskLevelForScore maps a clamped score onto its display band.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score < 30:
		return RiskLow
	case score < 60:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Report is the assembled analysis artifact handed to renderers.
// Assembly is pure data-shaping: field selection and string formatting
// only, no computation beyond that.
type Report struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`

	Score     int       `json:"score"`
	RiskLevel RiskLevel `json:"risk_level"`

	AccountCreated string `json:"account_created"`  // Localized date, e.g. "June 2, 2009"
	AccountAgeDays int    `json:"account_age_days"`

	Followers string `json:"followers"` // Thousands-separated for display
	Following string `json:"following"`
	Tweets    string `json:"tweets"`

	// BadReasons carries the negative trail with emphasis markup
	// stripped. An empty list means no anomalies were flagged.
	BadReasons  []string `json:"bad_reasons"`
	GoodReasons []string `json:"good_reasons"`

	Source      string    `json:"source"`       // Which provider satisfied the request
	GeneratedAt time.Time `json:"generated_at"`

	// ReportAccountURL is the platform's own report-user flow for this
	// handle. Rendering it as a link is the renderer's business.
	ReportAccountURL string `json:"report_account_url"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional narrative, never affects the score
}

// LLMSummary contains an optional LLM-generated narrative of a finished
// report. It is produced after scoring and can never feed back into it.
type LLMSummary struct {
	Enabled   bool   `json:"enabled"`
	Provider  string `json:"provider,omitempty"`
	Model     string `json:"model,omitempty"`
	SummaryMD string `json:"summary_md,omitempty"`
}
