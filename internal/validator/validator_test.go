package validator

import (
	"strings"
	"testing"

	"github.com/codegate-io/codegate/pkg/models"
)

const cleanSource = `def calculate_total(items: list, tax_rate: float) -> float:
    """Calculate the total price including tax."""
    if tax_rate < 0:
        raise ValueError("tax rate must be non-negative")
    subtotal = sum(items)
    return subtotal * (1 + tax_rate)
`

func TestValidateCleanArtifact(t *testing.T) {
	v := New()
	artifact := &models.CodeArtifact{
		FunctionName: "calculate_total",
		Code:         cleanSource,
		Dependencies: []string{"import math"},
	}

	report := v.Validate(artifact)
	if got := report.CriticalCount(); got != 0 {
		t.Errorf("CriticalCount() = %d, want 0; issues: %+v", got, report.Problems())
	}
	if got := report.WarningCount(); got != 0 {
		t.Errorf("WarningCount() = %d, want 0; issues: %+v", got, report.Problems())
	}
	if got := report.PassedCount(); got == 0 {
		t.Error("PassedCount() = 0, want passed entries for each check")
	}
}

func TestValidateSyntaxFailureShortCircuits(t *testing.T) {
	v := New()
	artifact := &models.CodeArtifact{
		Code: "def broken(:\n    eval(x)\n",
	}

	report := v.Validate(artifact)
	if got := report.CriticalCount(); got != 1 {
		t.Fatalf("CriticalCount() = %d, want 1", got)
	}

	for _, cat := range []models.Category{
		models.CategoryTypeHints,
		models.CategoryDocstring,
		models.CategoryErrorHandling,
		models.CategoryStyle,
	} {
		if got := report.ByCategory(cat); len(got) != 0 {
			t.Errorf("category %s should be skipped on syntax failure, got %+v", cat, got)
		}
	}

	// Raw-text checks still run on unparsable code.
	security := report.ByCategory(models.CategorySecurity)
	if len(security) == 0 {
		t.Error("security check should run on unparsable code")
	}
	found := false
	for _, iss := range security {
		if iss.Severity == models.SeverityWarning && strings.Contains(iss.Message, "eval") {
			found = true
		}
	}
	if !found {
		t.Error("eval( in unparsable code should still be flagged")
	}
}

func TestValidateMissingHintsAndDocstring(t *testing.T) {
	v := New()
	artifact := &models.CodeArtifact{
		Code: "def process(data):\n    return data\n",
	}

	report := v.Validate(artifact)

	hints := report.ByCategory(models.CategoryTypeHints)
	if len(hints) != 1 || hints[0].Severity != models.SeverityWarning {
		t.Errorf("type hints: got %+v, want one warning", hints)
	}
	docs := report.ByCategory(models.CategoryDocstring)
	if len(docs) != 1 || docs[0].Severity != models.SeverityWarning {
		t.Errorf("docstring: got %+v, want one warning", docs)
	}
	handling := report.ByCategory(models.CategoryErrorHandling)
	if len(handling) != 1 || handling[0].Severity != models.SeverityWarning {
		t.Errorf("error handling: got %+v, want one warning", handling)
	}
}

func TestValidateSecurityFindingsAreWarnings(t *testing.T) {
	v := New()
	artifact := &models.CodeArtifact{
		Code: "def run_it(cmd: str) -> None:\n    \"\"\"Run.\"\"\"\n    raise RuntimeError(eval(cmd))\n",
	}

	report := v.Validate(artifact)
	for _, iss := range report.ByCategory(models.CategorySecurity) {
		if iss.Severity == models.SeverityCritical {
			t.Errorf("security finding should be a warning, got critical: %s", iss.Message)
		}
	}
	if report.WarningCount() == 0 {
		t.Error("eval( should produce at least one warning")
	}
}

func TestValidateDependencies(t *testing.T) {
	tests := []struct {
		dep  string
		want models.Severity
	}{
		{"import os", models.SeverityPassed},
		{"import collections.abc", models.SeverityPassed},
		{"from typing import Optional, List", models.SeverityPassed},
		{"import numpy as np", models.SeverityPassed},
		{"requests", models.SeverityWarning},
		{"pip install flask", models.SeverityWarning},
	}
	v := New()
	for _, tt := range tests {
		t.Run(tt.dep, func(t *testing.T) {
			artifact := &models.CodeArtifact{Code: cleanSource, Dependencies: []string{tt.dep}}
			report := v.Validate(artifact)
			deps := report.ByCategory(models.CategoryDependency)
			if len(deps) != 1 {
				t.Fatalf("got %d dependency issues, want 1", len(deps))
			}
			if deps[0].Severity != tt.want {
				t.Errorf("dependency %q severity = %s, want %s", tt.dep, deps[0].Severity, tt.want)
			}
		})
	}
}

func TestValidateNaming(t *testing.T) {
	v := New()
	artifact := &models.CodeArtifact{
		Code: "def BadName(x: int) -> int:\n    \"\"\"Doc.\"\"\"\n    raise ValueError(x)\n",
	}
	report := v.Validate(artifact)
	style := report.ByCategory(models.CategoryStyle)
	if len(style) != 1 || style[0].Severity != models.SeverityWarning {
		t.Errorf("style: got %+v, want one warning for BadName", style)
	}
}

func TestValidateTestCode(t *testing.T) {
	tests := []struct {
		name         string
		testCode     string
		wantWarnings int
	}{
		{
			name:         "absent test block is skipped",
			testCode:     "",
			wantWarnings: 0,
		},
		{
			name:         "valid test block",
			testCode:     "def test_total() -> None:\n    \"\"\"Check totals.\"\"\"\n    assert calculate_total([1], 0.0) == 1.0\n",
			wantWarnings: 0,
		},
		{
			name:         "no test function and no asserts",
			testCode:     "def check_total() -> None:\n    \"\"\"Check.\"\"\"\n    print(calculate_total([1], 0.0))\n",
			wantWarnings: 2,
		},
		{
			name:         "unparsable test code",
			testCode:     "def test_x(:\n",
			wantWarnings: 1,
		},
	}
	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact := &models.CodeArtifact{Code: cleanSource, TestCode: tt.testCode}
			report := v.Validate(artifact)
			warnings := 0
			for _, iss := range report.ByCategory(models.CategoryTest) {
				if iss.Severity == models.SeverityWarning {
					warnings++
				}
			}
			if warnings != tt.wantWarnings {
				t.Errorf("test warnings = %d, want %d", warnings, tt.wantWarnings)
			}
			if report.CriticalCount() != 0 {
				t.Error("test-code findings must never be critical")
			}
		})
	}
}

func TestValidateExecutionPassThrough(t *testing.T) {
	tests := []struct {
		name string
		exec *models.ExecutionResult
		want models.Severity
	}{
		{"no execution result", nil, models.Severity(-1)},
		{"exit zero", &models.ExecutionResult{ExitCode: 0, Output: "ok"}, models.SeverityPassed},
		{"nonzero exit", &models.ExecutionResult{ExitCode: 1, Output: "Traceback\nValueError: bad"}, models.SeverityCritical},
	}
	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact := &models.CodeArtifact{Code: cleanSource, Execution: tt.exec}
			report := v.Validate(artifact)
			execIssues := report.ByCategory(models.CategoryExecution)
			if tt.exec == nil {
				if len(execIssues) != 0 {
					t.Fatalf("got %d execution issues, want 0", len(execIssues))
				}
				return
			}
			if len(execIssues) != 1 {
				t.Fatalf("got %d execution issues, want 1", len(execIssues))
			}
			if execIssues[0].Severity != tt.want {
				t.Errorf("execution severity = %s, want %s", execIssues[0].Severity, tt.want)
			}
		})
	}
}

func TestValidateAssessmentPassThrough(t *testing.T) {
	v := New()
	artifact := &models.CodeArtifact{
		Code:       cleanSource,
		Assessment: &models.Assessment{Score: 8.5, Maintainability: 7.0},
	}
	report := v.Validate(artifact)
	if report.AIScore == nil || *report.AIScore != 8.5 {
		t.Errorf("AIScore = %v, want 8.5", report.AIScore)
	}
	if report.AIMaintainability == nil || *report.AIMaintainability != 7.0 {
		t.Errorf("AIMaintainability = %v, want 7.0", report.AIMaintainability)
	}

	// Scores are advisory; they never generate issues.
	low := &models.CodeArtifact{Code: cleanSource, Assessment: &models.Assessment{Score: 1.0}}
	if got := v.Validate(low).CriticalCount(); got != 0 {
		t.Errorf("low AI score produced %d critical issues, want 0", got)
	}
}

func TestValidateIdempotent(t *testing.T) {
	v := New()
	artifact := &models.CodeArtifact{Code: "def process(data):\n    return data\n", Dependencies: []string{"bogus"}}

	first := v.Validate(artifact)
	second := v.Validate(artifact)
	if len(first.Issues) != len(second.Issues) {
		t.Fatalf("issue counts differ across runs: %d vs %d", len(first.Issues), len(second.Issues))
	}
	for i := range first.Issues {
		if first.Issues[i] != second.Issues[i] {
			t.Errorf("issue %d differs: %+v vs %+v", i, first.Issues[i], second.Issues[i])
		}
	}
}
