package report

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/codegate-io/codegate/pkg/models"
)

func sampleResult() *models.RunResult {
	score := 8.5
	best := &models.AttemptRecord{
		Index: 2,
		Artifact: models.CodeArtifact{
			FunctionName:  "parse_csv",
			Code:          "def parse_csv(path: str) -> list:\n    return []\n",
			Explanation:   "Parses a CSV file into a list of rows.",
			Dependencies:  []string{"csv"},
			TestCode:      "def test_parse_csv():\n    assert parse_csv(\"x\") == []\n",
			UsageExamples: []string{"parse_csv(\"data.csv\")"},
		},
		Report: models.ValidationReport{
			Issues: []models.Issue{
				models.Passed(models.CategorySyntax, "source parses cleanly"),
				models.Warning(models.CategoryDocstring, "function parse_csv has no docstring"),
				models.Critical(models.CategoryExecution, "tests exited with code 1"),
			},
			AIScore: &score,
		},
		GenerateDuration: 2 * time.Second,
		GenerationTokens: 500,
	}
	first := &models.AttemptRecord{Index: 1, GenerationTokens: 400}
	first.Report.Add(models.Critical(models.CategorySyntax, "syntax error: unmatched bracket"))

	return &models.RunResult{
		ID:            "run-123",
		Task:          "Write a CSV parser",
		Status:        models.RunStatusPartialSuccess,
		BestAttempt:   best,
		Attempts:      []*models.AttemptRecord{first, best},
		TotalDuration: 5 * time.Second,
		TotalTokens:   900,
		StartedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderSections(t *testing.T) {
	out := Render(sampleResult())

	for _, want := range []string{
		"# Quality-Gated Generation Report",
		"## Summary",
		"PARTIAL SUCCESS",
		"**Best attempt:** #2",
		"## Task",
		"Write a CSV parser",
		"## Metrics",
		"**Total tokens:** 900",
		"AI quality score | 8.5/10",
		"## Attempt History",
		"## Generated Artifact",
		"`parse_csv`",
		"```python",
		"### Tests",
		"### Usage Examples",
		"## Findings",
		"### Critical Issues",
		"tests exited with code 1",
		"### Warnings",
		"### Passed Checks",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderNoArtifact(t *testing.T) {
	result := sampleResult()
	result.BestAttempt = nil
	out := Render(result)
	if !strings.Contains(out, "No usable artifact was produced.") {
		t.Error("expected no-artifact notice")
	}
	if strings.Contains(out, "## Findings") {
		t.Error("findings should be omitted without a best attempt")
	}
}

func TestRenderAttemptHistoryRows(t *testing.T) {
	out := Render(sampleResult())
	if !strings.Contains(out, "| 1 | 1 | 0 | 0 |") {
		t.Error("missing first attempt row")
	}
	if !strings.Contains(out, "| 2 | 1 | 1 | 1 |") {
		t.Error("missing second attempt row")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteFile(dir, sampleResult())
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !strings.HasPrefix(path, dir) || !strings.HasSuffix(path, ".md") {
		t.Errorf("unexpected path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "run-123") {
		t.Error("report file missing run id")
	}
}
