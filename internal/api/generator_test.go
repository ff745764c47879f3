package api

import (
	"errors"
	"strings"
	"testing"
)

func TestParseArtifact(t *testing.T) {
	response := "Here is the function:\n```json\n" + `{
  "function_name": "calculate_total",
  "code": "def calculate_total(items: list) -> float:\n    \"\"\"Sum items.\"\"\"\n    return float(sum(items))",
  "explanation": "Sums the list and converts to float.",
  "dependencies": ["import math"],
  "test_code": "def test_calculate_total() -> None:\n    assert calculate_total([1, 2]) == 3.0",
  "usage_examples": ["calculate_total([1, 2, 3])"]
}` + "\n```\nLet me know if you need changes."

	artifact, err := ParseArtifact(response)
	if err != nil {
		t.Fatalf("ParseArtifact() error = %v", err)
	}
	if artifact.FunctionName != "calculate_total" {
		t.Errorf("FunctionName = %q, want calculate_total", artifact.FunctionName)
	}
	if !strings.Contains(artifact.Code, "def calculate_total") {
		t.Errorf("Code does not contain the function: %q", artifact.Code)
	}
	if len(artifact.Dependencies) != 1 || artifact.Dependencies[0] != "import math" {
		t.Errorf("Dependencies = %v, want [import math]", artifact.Dependencies)
	}
	if artifact.TestCode == "" {
		t.Error("TestCode not carried through")
	}
}

func TestParseArtifactErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     error
	}{
		{"no JSON at all", "I cannot help with that.", ErrNoJSON},
		{"empty response", "", ErrNoJSON},
		{"broken JSON", `{"function_name": "f", "code": `, ErrNoJSON},
		{"invalid JSON body", `{"function_name": 12, "code": "x"}`, ErrMalformedArtifact},
		{"missing code", `{"function_name": "f", "code": "  "}`, ErrEmptyArtifact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArtifact(tt.response)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseArtifact() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildGenerationPrompt(t *testing.T) {
	first := BuildGenerationPrompt("reverse a string", "", 1)
	if !strings.Contains(first, "reverse a string") {
		t.Error("task missing from first prompt")
	}
	if strings.Contains(first, "attempt") {
		t.Error("first prompt should not mention retries")
	}

	retry := BuildGenerationPrompt("reverse a string", "- docstring (1 issue(s)):\n  - [warning] missing docstring", 2)
	if !strings.Contains(retry, "missing docstring") {
		t.Error("feedback missing from retry prompt")
	}
	if !strings.Contains(retry, "attempt 2") {
		t.Error("retry prompt should carry the attempt number")
	}
}
