package models

import "time"

// RunStatus is the terminal status of a quality-gated run.
type RunStatus string

const (
	// RunStatusSuccess indicates the best attempt passed the quality gate.
	RunStatusSuccess RunStatus = "success"
	// RunStatusPartialSuccess indicates no attempt passed; the best attempt
	// found is still carried so callers can see why.
	RunStatusPartialSuccess RunStatus = "partial_success"
)

// Valid returns true if the status is a known value.
func (s RunStatus) Valid() bool {
	return s == RunStatusSuccess || s == RunStatusPartialSuccess
}

// RunResult is the final outcome of a run: the chosen best attempt, the
// full attempt history, and totals aggregated over every attempt. It is
// created once at loop termination and owned by the caller thereafter.
type RunResult struct {
	// ID is the unique run identifier.
	ID string `json:"id"`
	// Task is the original task prompt.
	Task string `json:"task"`
	// Status is Success if the best attempt passed the gate.
	Status RunStatus `json:"status"`
	// BestAttempt points at the attempt chosen as final output.
	BestAttempt *AttemptRecord `json:"best_attempt"`
	// Attempts is the full ordered attempt history.
	Attempts []*AttemptRecord `json:"attempts"`
	// TotalDuration is the wall-clock time summed over all attempts.
	TotalDuration time.Duration `json:"total_duration"`
	// TotalTokens is the token count summed over all attempts.
	TotalTokens int64 `json:"total_tokens"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
}
