package api

import (
	"fmt"
	"strings"
)

// generationSystemPrompt instructs the model to return a single structured
// artifact rather than free-form prose.
const generationSystemPrompt = `You are an expert Python developer. You write production-quality functions: full type hints, docstrings, explicit error handling, snake_case naming, and no dangerous constructs (no eval/exec, no shell invocation, no unparameterized SQL).

Respond with ONLY a JSON object, no other text, with this exact structure:
{
  "function_name": "snake_case_name",
  "code": "the complete function source",
  "explanation": "one short paragraph describing the approach",
  "dependencies": ["import statements required, one per entry"],
  "test_code": "pytest-style test functions exercising the code",
  "usage_examples": ["short example invocations"]
}`

// assessmentSystemPrompt asks for two numeric scores in a fixed format the
// parser can extract.
const assessmentSystemPrompt = `You are a strict code reviewer. Score the code you are given.

Your response MUST contain exactly these two lines (other commentary is allowed after them):
SCORE: <0-10>
MAINTAINABILITY: <0-10>

Use one decimal place at most. SCORE measures overall quality and correctness; MAINTAINABILITY measures how easy the code is to change safely.`

// BuildGenerationPrompt renders the user prompt for one attempt. Retry
// attempts carry the synthesized feedback from the previous report.
func BuildGenerationPrompt(task, feedback string, attempt int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a Python function for the following task:\n\n%s\n", task)
	if feedback != "" {
		fmt.Fprintf(&b, "\nThis is attempt %d. %s\n", attempt, feedback)
		b.WriteString("\nRegenerate the complete function from scratch with every issue above resolved.")
	}
	return b.String()
}

// BuildAssessmentPrompt renders the user prompt for the advisory quality
// assessment of a generated artifact.
func BuildAssessmentPrompt(functionName, code, testCode string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assess this Python function (%s):\n\n```python\n%s\n```\n", functionName, code)
	if testCode != "" {
		fmt.Fprintf(&b, "\nIts tests:\n\n```python\n%s\n```\n", testCode)
	}
	return b.String()
}
