// Package report renders a finished run as a markdown document: outcome,
// metrics, attempt history, the chosen artifact, and every finding.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codegate-io/codegate/pkg/models"
)

// approxCostPerToken is a blended input/output estimate used only for the
// cost line in the report.
const approxCostPerToken = 0.00001

// Render produces the full markdown report for a run.
func Render(result *models.RunResult) string {
	var b strings.Builder

	b.WriteString("# Quality-Gated Generation Report\n\n")
	writeSummary(&b, result)
	writeTask(&b, result)
	writeMetrics(&b, result)
	writeAttemptHistory(&b, result)
	writeArtifact(&b, result)
	writeFindings(&b, result)

	return b.String()
}

// WriteFile renders the report and writes it to a timestamped file under
// dir, creating the directory if needed. Returns the file path.
func WriteFile(dir string, result *models.RunResult) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	name := fmt.Sprintf("codegate_report_%s.md", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(Render(result)), 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func writeSummary(b *strings.Builder, result *models.RunResult) {
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "- **Run ID:** %s\n", result.ID)
	fmt.Fprintf(b, "- **Status:** %s\n", statusLabel(result.Status))
	fmt.Fprintf(b, "- **Started:** %s\n", result.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(b, "- **Attempts:** %d\n", len(result.Attempts))
	if result.BestAttempt != nil {
		fmt.Fprintf(b, "- **Best attempt:** #%d\n", result.BestAttempt.Index)
	}
	b.WriteString("\n")
}

func writeTask(b *strings.Builder, result *models.RunResult) {
	b.WriteString("## Task\n\n```\n")
	b.WriteString(strings.TrimSpace(result.Task))
	b.WriteString("\n```\n\n")
}

func writeMetrics(b *strings.Builder, result *models.RunResult) {
	b.WriteString("## Metrics\n\n")
	fmt.Fprintf(b, "- **Total duration:** %.2fs\n", result.TotalDuration.Seconds())
	fmt.Fprintf(b, "- **Total tokens:** %d\n", result.TotalTokens)
	fmt.Fprintf(b, "- **Estimated cost:** ~$%.4f USD\n", float64(result.TotalTokens)*approxCostPerToken)

	if best := result.BestAttempt; best != nil {
		b.WriteString("\n| Metric | Count |\n|--------|-------|\n")
		fmt.Fprintf(b, "| Critical issues | %d |\n", best.Report.CriticalCount())
		fmt.Fprintf(b, "| Warnings | %d |\n", best.Report.WarningCount())
		fmt.Fprintf(b, "| Passed checks | %d |\n", best.Report.PassedCount())
		if best.Report.AIScore != nil {
			fmt.Fprintf(b, "| AI quality score | %.1f/10 |\n", *best.Report.AIScore)
		}
		if best.Report.AIMaintainability != nil {
			fmt.Fprintf(b, "| AI maintainability | %.1f/10 |\n", *best.Report.AIMaintainability)
		}
	}
	b.WriteString("\n")
}

func writeAttemptHistory(b *strings.Builder, result *models.RunResult) {
	if len(result.Attempts) == 0 {
		return
	}
	b.WriteString("## Attempt History\n\n")
	b.WriteString("| # | Critical | Warnings | Passed | Duration | Tokens |\n")
	b.WriteString("|---|----------|----------|--------|----------|--------|\n")
	for _, a := range result.Attempts {
		fmt.Fprintf(b, "| %d | %d | %d | %d | %.2fs | %d |\n",
			a.Index, a.Report.CriticalCount(), a.Report.WarningCount(),
			a.Report.PassedCount(), a.Duration().Seconds(), a.Tokens())
	}
	b.WriteString("\n")
}

func writeArtifact(b *strings.Builder, result *models.RunResult) {
	best := result.BestAttempt
	if best == nil || best.Artifact.Empty() {
		b.WriteString("## Generated Artifact\n\nNo usable artifact was produced.\n\n")
		return
	}
	art := &best.Artifact

	b.WriteString("## Generated Artifact\n\n")
	if art.FunctionName != "" {
		fmt.Fprintf(b, "- **Function:** `%s`\n", art.FunctionName)
	}
	fmt.Fprintf(b, "- **Dependencies:** %d\n\n", len(art.Dependencies))

	if art.Explanation != "" {
		b.WriteString("### Explanation\n\n")
		b.WriteString(strings.TrimSpace(art.Explanation))
		b.WriteString("\n\n")
	}

	b.WriteString("### Code\n\n```python\n")
	b.WriteString(strings.TrimRight(art.Code, "\n"))
	b.WriteString("\n```\n\n")

	if len(art.Dependencies) > 0 {
		b.WriteString("### Dependencies\n\n")
		for _, dep := range art.Dependencies {
			fmt.Fprintf(b, "- `%s`\n", dep)
		}
		b.WriteString("\n")
	}

	if art.TestCode != "" {
		b.WriteString("### Tests\n\n```python\n")
		b.WriteString(strings.TrimRight(art.TestCode, "\n"))
		b.WriteString("\n```\n\n")
	}

	if len(art.UsageExamples) > 0 {
		b.WriteString("### Usage Examples\n\n")
		for i, example := range art.UsageExamples {
			fmt.Fprintf(b, "%d. `%s`\n", i+1, example)
		}
		b.WriteString("\n")
	}
}

func writeFindings(b *strings.Builder, result *models.RunResult) {
	best := result.BestAttempt
	if best == nil || len(best.Report.Issues) == 0 {
		return
	}

	b.WriteString("## Findings\n\n")
	sections := []struct {
		severity models.Severity
		title    string
	}{
		{models.SeverityCritical, "Critical Issues"},
		{models.SeverityWarning, "Warnings"},
		{models.SeverityPassed, "Passed Checks"},
	}
	for _, section := range sections {
		issues := best.Report.BySeverity(section.severity)
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintf(b, "### %s\n\n", section.title)
		for _, iss := range issues {
			fmt.Fprintf(b, "- [%s] %s\n", iss.Category, iss.Message)
		}
		b.WriteString("\n")
	}
}

func statusLabel(status models.RunStatus) string {
	switch status {
	case models.RunStatusSuccess:
		return "SUCCESS: accepted by the quality gate"
	case models.RunStatusPartialSuccess:
		return "PARTIAL SUCCESS: best attempt carried, gate not satisfied"
	default:
		return string(status)
	}
}
