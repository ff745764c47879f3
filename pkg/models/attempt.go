package models

import "time"

// AttemptRecord captures one full generate-then-validate cycle. Records are
// immutable once validation completes and live in the append-only attempt
// list owned by the run's orchestrator.
type AttemptRecord struct {
	// Index is the 1-based attempt number.
	Index int `json:"index"`
	// Artifact is the generated output for this attempt.
	Artifact CodeArtifact `json:"artifact"`
	// Report is the validation report for this attempt.
	Report ValidationReport `json:"report"`
	// GenerateDuration is the wall-clock time spent generating.
	GenerateDuration time.Duration `json:"generate_duration"`
	// ValidateDuration is the wall-clock time spent validating.
	ValidateDuration time.Duration `json:"validate_duration"`
	// GenerationTokens is the token count reported for the generation call.
	GenerationTokens int64 `json:"generation_tokens,omitempty"`
	// ValidationTokens is the token count for any validation-side model
	// calls (AI assessment), zero otherwise.
	ValidationTokens int64 `json:"validation_tokens,omitempty"`
}

// Accepted returns true if the attempt's report satisfies the accept rule
// for the given warning threshold: no critical issues and no more warnings
// than the threshold allows.
func (a *AttemptRecord) Accepted(warningThreshold int) bool {
	return a.Report.CriticalCount() == 0 && a.Report.WarningCount() <= warningThreshold
}

// Tokens returns the total tokens consumed by this attempt.
func (a *AttemptRecord) Tokens() int64 {
	return a.GenerationTokens + a.ValidationTokens
}

// Duration returns the total wall-clock time for this attempt.
func (a *AttemptRecord) Duration() time.Duration {
	return a.GenerateDuration + a.ValidateDuration
}
