package models

// CodeArtifact bundles everything produced by one generation call: the
// function source, its declared dependencies, the accompanying test block,
// and any collaborator signals attached before validation.
type CodeArtifact struct {
	// FunctionName is the name of the generated function.
	FunctionName string `json:"function_name"`
	// Code is the generated source text.
	Code string `json:"code"`
	// Explanation describes what the function does and why.
	Explanation string `json:"explanation,omitempty"`
	// Dependencies lists the declared import statements.
	Dependencies []string `json:"dependencies,omitempty"`
	// TestCode is the generated unit test block, if any.
	TestCode string `json:"test_code,omitempty"`
	// UsageExamples lists example invocations.
	UsageExamples []string `json:"usage_examples,omitempty"`
	// Execution is the result from the execution collaborator, if it ran.
	// The validator only reads this; it never executes code itself.
	Execution *ExecutionResult `json:"execution,omitempty"`
	// Assessment is the result from the AI-assessment collaborator, if any.
	Assessment *Assessment `json:"assessment,omitempty"`
}

// Empty returns true if the artifact has no source text.
func (a *CodeArtifact) Empty() bool {
	return a == nil || a.Code == ""
}

// ExecutionResult is the outcome of running an artifact in a sandbox.
type ExecutionResult struct {
	// ExitCode is the process exit code (0 = success).
	ExitCode int `json:"exit_code"`
	// Output is the combined stdout/stderr from the run.
	Output string `json:"output,omitempty"`
}

// Assessment holds advisory scores from an AI code-review collaborator.
type Assessment struct {
	// Score is the overall quality score (0-10).
	Score float64 `json:"score"`
	// Maintainability is the maintainability score (0-10).
	Maintainability float64 `json:"maintainability"`
}
