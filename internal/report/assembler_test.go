package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonar/birdwatch/internal/model"
)

func sampleProfile() *model.AccountProfile {
	bio := "bitcoin"
	return &model.AccountProfile{
		ID:             "12",
		Username:       "jack",
		DisplayName:    "jack",
		Bio:            &bio,
		CreatedAt:      time.Date(2006, 3, 21, 20, 50, 14, 0, time.UTC),
		FollowersCount: 6500000,
		FollowingCount: 4500,
		TweetCount:     29000,
	}
}

func sampleResult() model.ScoreResult {
	return model.ScoreResult{
		Score:          15,
		AccountAgeDays: 6000,
		Reasons: model.Reasons{
			Good: []string{"Profile has a descriptive bio."},
			Bad:  []string{"**Account is relatively new** (120 days old): +15"},
		},
	}
}

func TestAssemble(t *testing.T) {
	generatedAt := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	r := Assemble(sampleProfile(), sampleResult(), "x-api", generatedAt)

	assert.Equal(t, "jack", r.Username)
	assert.Equal(t, 15, r.Score)
	assert.Equal(t, model.RiskLow, r.RiskLevel)
	assert.Equal(t, "March 21, 2006", r.AccountCreated)
	assert.Equal(t, 6000, r.AccountAgeDays)
	assert.Equal(t, "6,500,000", r.Followers)
	assert.Equal(t, "4,500", r.Following)
	assert.Equal(t, "29,000", r.Tweets)
	assert.Equal(t, "x-api", r.Source)
	assert.Equal(t, "https://x.com/i/flow/report-user?screen_name=jack", r.ReportAccountURL)

	require.Len(t, r.BadReasons, 1)
	assert.Equal(t, "Account is relatively new (120 days old): +15", r.BadReasons[0],
		"emphasis markup must be stripped")
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{29000, "29,000"},
		{6500000, "6,500,000"},
		{1234567890, "1,234,567,890"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCount(tt.n), "n=%d", tt.n)
	}
}

func TestRiskLevelBands(t *testing.T) {
	assert.Equal(t, model.RiskLow, model.RiskLevelForScore(0))
	assert.Equal(t, model.RiskLow, model.RiskLevelForScore(29))
	assert.Equal(t, model.RiskMedium, model.RiskLevelForScore(30))
	assert.Equal(t, model.RiskMedium, model.RiskLevelForScore(59))
	assert.Equal(t, model.RiskHigh, model.RiskLevelForScore(60))
	assert.Equal(t, model.RiskHigh, model.RiskLevelForScore(100))
}

func TestRenderer_Markdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.md")

	r := Assemble(sampleProfile(), sampleResult(), "snscrape", time.Now())
	require.NoError(t, NewRenderer(true).RenderMarkdown(r, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	md := string(data)

	assert.Contains(t, md, "# Fake Account Analysis: @jack")
	assert.Contains(t, md, "**Fakeness Score:** 15/100")
	assert.Contains(t, md, "**Data Source:** snscrape")
	assert.Contains(t, md, "Account is relatively new")
	assert.Contains(t, md, "report-user?screen_name=jack")
	assert.Contains(t, md, "Report generated on")
}

func TestRenderer_Markdown_NoAnomalies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.md")

	result := model.ScoreResult{Score: 0, AccountAgeDays: 6000}
	r := Assemble(sampleProfile(), result, "x-api", time.Now())
	require.NoError(t, NewRenderer(false).RenderMarkdown(r, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "No significant behavioral anomalies detected")
	assert.NotContains(t, string(data), "Report generated on", "footer disabled")
}

func TestRenderer_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	r := Assemble(sampleProfile(), sampleResult(), "x-api", time.Now())
	require.NoError(t, NewRenderer(true).RenderJSON(r, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"score": 15`)
	assert.Contains(t, string(data), `"source": "x-api"`)
}

func TestRenderer_Summary(t *testing.T) {
	var b strings.Builder
	r := Assemble(sampleProfile(), sampleResult(), "x-api", time.Now())
	NewRenderer(true).RenderSummary(&b, r)

	out := b.String()
	assert.Contains(t, out, "@jack")
	assert.Contains(t, out, "Fakeness score: 15/100")
	assert.Contains(t, out, "✗ Account is relatively new")
}
