// Package gate implements the quality-gated generation loop: the
// accept/retry/give-up decision, the attempt tracker, the feedback
// synthesizer, and the orchestrator that drives them.
package gate

import (
	"errors"
	"fmt"

	"github.com/codegate-io/codegate/pkg/models"
)

// ErrInvalidConfiguration is returned before any attempt executes when the
// gate configuration is unusable.
var ErrInvalidConfiguration = errors.New("invalid gate configuration")

const (
	// DefaultMaxAttempts bounds the retry loop.
	DefaultMaxAttempts = 5
	// DefaultWarningThreshold is the inclusive ceiling of warnings an
	// accepted attempt may carry.
	DefaultWarningThreshold = 5
)

// Config controls the gate decision and loop bounds for a single run.
// The zero value is not a usable policy (MaxAttempts 0 fails Validate and
// CriticalFatal is off); start from DefaultConfig and override fields.
type Config struct {
	// MaxAttempts is the hard ceiling on generation attempts. Must be >= 1.
	MaxAttempts int
	// WarningThreshold is the inclusive number of warnings an attempt may
	// carry and still be accepted. Must be >= 0.
	WarningThreshold int
	// CriticalFatal, when true, makes any critical issue block acceptance
	// regardless of the warning count.
	CriticalFatal bool
	// ExecutionEnabled turns the optional execution collaborator on.
	ExecutionEnabled bool
}

// DefaultConfig returns the standard gate policy.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:      DefaultMaxAttempts,
		WarningThreshold: DefaultWarningThreshold,
		CriticalFatal:    true,
		ExecutionEnabled: true,
	}
}

// Validate reports whether the configuration can drive a run.
func (c Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be at least 1, got %d", ErrInvalidConfiguration, c.MaxAttempts)
	}
	if c.WarningThreshold < 0 {
		return fmt.Errorf("%w: warning threshold must be non-negative, got %d", ErrInvalidConfiguration, c.WarningThreshold)
	}
	return nil
}

// Accepts reports whether an attempt's report satisfies the accept rule
// under this configuration.
func (c Config) Accepts(a *models.AttemptRecord) bool {
	if a == nil {
		return false
	}
	if c.CriticalFatal && a.Report.CriticalCount() > 0 {
		return false
	}
	return a.Report.WarningCount() <= c.WarningThreshold
}
