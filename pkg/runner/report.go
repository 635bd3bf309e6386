package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Report is the full record of one suite run.
type Report struct {
	Suite     string        `json:"suite"`
	RunID     string        `json:"run_id"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Outcomes  []Outcome     `json:"scenarios"`
}

// tally recomputes the aggregate counters from the outcomes.
func (r *Report) tally() {
	r.Total, r.Passed, r.Failed, r.Skipped = 0, 0, 0, 0
	for _, o := range r.Outcomes {
		r.Total++
		switch {
		case o.Skipped:
			r.Skipped++
		case o.Status == StatusPassed:
			r.Passed++
		default:
			r.Failed++
		}
	}
}

// Ok reports whether the run had no failed scenarios.
func (r *Report) Ok() bool {
	return r.Failed == 0
}

// ReportWriter persists run reports under the artifacts directory.
type ReportWriter struct {
	outputDir string
}

// NewReportWriter creates a writer targeting outputDir.
func NewReportWriter(outputDir string) *ReportWriter {
	return &ReportWriter{outputDir: outputDir}
}

// WriteAll writes the JSON report and the markdown summary.
func (w *ReportWriter) WriteAll(report *Report) error {
	if err := os.MkdirAll(w.outputDir, 0750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := w.WriteJSON(report); err != nil {
		return err
	}
	return w.WriteMarkdown(report)
}

// WriteJSON writes the machine-readable report as report.json.
func (w *ReportWriter) WriteJSON(report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(w.outputDir, "report.json")
	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write report JSON: %w", writeErr)
	}
	return nil
}

// WriteMarkdown writes a human-readable summary as summary.md.
func (w *ReportWriter) WriteMarkdown(report *Report) error {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("# %s Run Summary\n\n", report.Suite))
	md.WriteString(fmt.Sprintf("**Run ID:** %s\n\n", report.RunID))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", report.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", report.Duration.Round(time.Millisecond)))
	md.WriteString(fmt.Sprintf("**Result:** %d passed, %d failed, %d skipped of %d\n\n",
		report.Passed, report.Failed, report.Skipped, report.Total))

	md.WriteString("## Scenarios\n\n")
	for _, o := range report.Outcomes {
		status := "✅"
		switch {
		case o.Skipped:
			status = "⏭️"
		case o.Status != StatusPassed:
			status = "❌"
		}
		md.WriteString(fmt.Sprintf("%s **%s**", status, o.Name))
		if len(o.Attempts) > 1 {
			md.WriteString(fmt.Sprintf(" (%d attempts)", len(o.Attempts)))
		}
		md.WriteString("\n")

		if last := lastAttempt(o); last != nil && last.Error != "" {
			md.WriteString(fmt.Sprintf("   Failed at `%s`: %s\n", last.FailedStep, last.Error))
		}
		for _, a := range o.Attachments {
			md.WriteString(fmt.Sprintf("   - `%s`\n", a))
		}
	}
	md.WriteString("\n")

	path := filepath.Join(w.outputDir, "summary.md")
	if err := os.WriteFile(path, []byte(md.String()), 0600); err != nil {
		return fmt.Errorf("failed to write summary markdown: %w", err)
	}
	return nil
}

func lastAttempt(o Outcome) *Attempt {
	if len(o.Attempts) == 0 {
		return nil
	}
	return &o.Attempts[len(o.Attempts)-1]
}

var (
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	skipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// ConsoleSummary renders the report for terminal output.
func ConsoleSummary(report *Report) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s (%s)", report.Suite, report.RunID)))
	sb.WriteString("\n\n")

	for _, o := range report.Outcomes {
		switch {
		case o.Skipped:
			sb.WriteString(skipStyle.Render(fmt.Sprintf("  SKIP  %s", o.Name)))
		case o.Status == StatusPassed:
			line := fmt.Sprintf("  PASS  %s (%s)", o.Name, o.Duration.Round(time.Millisecond))
			if len(o.Attempts) > 1 {
				line += fmt.Sprintf(" after %d attempts", len(o.Attempts))
			}
			sb.WriteString(passStyle.Render(line))
		default:
			sb.WriteString(failStyle.Render(fmt.Sprintf("  FAIL  %s (%s)", o.Name, o.Duration.Round(time.Millisecond))))
			if last := lastAttempt(o); last != nil && last.Error != "" {
				sb.WriteString("\n        " + last.Error)
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	counts := fmt.Sprintf("%d passed, %d failed, %d skipped in %s",
		report.Passed, report.Failed, report.Skipped, report.Duration.Round(time.Millisecond))
	if report.Ok() {
		sb.WriteString(passStyle.Render(counts))
	} else {
		sb.WriteString(failStyle.Render(counts))
	}
	sb.WriteString("\n")
	return sb.String()
}
