package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okonar/birdwatch/internal/model"
)

// noAnomaliesLine is shown when the bad reason list is empty.
const noAnomaliesLine = "No significant behavioral anomalies detected. This account appears to be legitimate based on the checks performed."

// Renderer writes report artifacts. Document layout beyond JSON and
// Markdown (PDF and friends) is the business of external tooling fed
// by the JSON artifact.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a human-readable document.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	if err := os.WriteFile(path, []byte(r.markdown(report)), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints a short result summary to w.
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "\n@%s - %s\n", report.Username, report.DisplayName)
	fmt.Fprintf(w, "Fakeness score: %d/100 (%s risk, source: %s)\n", report.Score, report.RiskLevel, report.Source)
	fmt.Fprintf(w, "Account created: %s (%d days ago)\n", report.AccountCreated, report.AccountAgeDays)
	fmt.Fprintf(w, "Followers: %s  Following: %s  Tweets: %s\n\n", report.Followers, report.Following, report.Tweets)

	if len(report.BadReasons) == 0 {
		fmt.Fprintf(w, "  ✓ %s\n", noAnomaliesLine)
		return
	}
	for _, reason := range report.BadReasons {
		fmt.Fprintf(w, "  ✗ %s\n", reason)
	}
}

func (r *Renderer) markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Fake Account Analysis: @%s\n\n", report.Username)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Fakeness Score:** %d/100 (%s risk)\n", report.Score, report.RiskLevel)
	fmt.Fprintf(&b, "- **Account Created:** %s (%d days ago)\n", report.AccountCreated, report.AccountAgeDays)
	fmt.Fprintf(&b, "- **Followers:** %s\n", report.Followers)
	fmt.Fprintf(&b, "- **Following:** %s\n", report.Following)
	fmt.Fprintf(&b, "- **Total Tweets:** %s\n", report.Tweets)
	fmt.Fprintf(&b, "- **Data Source:** %s\n\n", report.Source)

	b.WriteString("## Analysis Breakdown\n\n")
	if len(report.BadReasons) == 0 {
		fmt.Fprintf(&b, "- %s\n", noAnomaliesLine)
	} else {
		for _, reason := range report.BadReasons {
			fmt.Fprintf(&b, "- %s\n", reason)
		}
	}
	b.WriteString("\n")

	if len(report.GoodReasons) > 0 {
		b.WriteString("## Healthy Signals\n\n")
		for _, reason := range report.GoodReasons {
			fmt.Fprintf(&b, "- %s\n", reason)
		}
		b.WriteString("\n")
	}

	if report.LLM != nil && report.LLM.Enabled && report.LLM.SummaryMD != "" {
		b.WriteString("## Narrative Summary\n\n")
		b.WriteString(report.LLM.SummaryMD)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "To report this account: %s\n", report.ReportAccountURL)

	if r.includeFooter {
		fmt.Fprintf(&b, "\n---\nReport generated on %s by birdwatch\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	}

	return b.String()
}
