// Package report assembles and renders the analysis artifact.
package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/okonar/birdwatch/internal/model"
)

// createdDateLayout is the localized display format for the account
// creation date.
const createdDateLayout = "January 2, 2006"

// reportFlowURL is the platform's own report-user flow.
const reportFlowURL = "https://x.com/i/flow/report-user?screen_name="

// Assemble packages a scored profile into the renderer-facing report.
// Pure data shaping: field selection and string formatting only.
func Assemble(profile *model.AccountProfile, result model.ScoreResult, source string, generatedAt time.Time) *model.Report {
	return &model.Report{
		Username:    profile.Username,
		DisplayName: profile.DisplayName,

		Score:     result.Score,
		RiskLevel: model.RiskLevelForScore(result.Score),

		AccountCreated: profile.CreatedAt.Format(createdDateLayout),
		AccountAgeDays: result.AccountAgeDays,

		Followers: formatCount(profile.FollowersCount),
		Following: formatCount(profile.FollowingCount),
		Tweets:    formatCount(profile.TweetCount),

		BadReasons:  stripEmphasis(result.Reasons.Bad),
		GoodReasons: stripEmphasis(result.Reasons.Good),

		Source:      source,
		GeneratedAt: generatedAt,

		ReportAccountURL: reportFlowURL + profile.Username,
	}
}

// stripEmphasis removes markdown bold markers from reason strings so
// renderers that are not markdown-aware get clean text.
func stripEmphasis(reasons []string) []string {
	out := make([]string, len(reasons))
	for i, r := range reasons {
		out[i] = strings.ReplaceAll(r, "**", "")
	}
	return out
}

// formatCount renders an integer with thousands separators.
func formatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
