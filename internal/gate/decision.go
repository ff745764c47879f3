package gate

import "github.com/codegate-io/codegate/pkg/models"

// Decision is the gate outcome for one attempt.
type Decision int

const (
	// DecisionAccept ends the run with the current attempt as final output.
	DecisionAccept Decision = iota
	// DecisionRetry loops back to generation with synthesized feedback.
	DecisionRetry
	// DecisionGiveUp ends the run after the attempt budget is exhausted.
	DecisionGiveUp
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case DecisionAccept:
		return "accept"
	case DecisionRetry:
		return "retry"
	case DecisionGiveUp:
		return "give_up"
	default:
		return "unknown"
	}
}

// Decide computes the gate decision for the latest attempt: accept when
// the report satisfies the configured policy, retry while attempts remain,
// give up otherwise.
func Decide(attempt *models.AttemptRecord, cfg Config) Decision {
	if cfg.Accepts(attempt) {
		return DecisionAccept
	}
	if attempt.Index < cfg.MaxAttempts {
		return DecisionRetry
	}
	return DecisionGiveUp
}
