package gate

import (
	"time"

	"github.com/codegate-io/codegate/pkg/models"
)

// Tracker owns the append-only attempt history for one run. Best is a pure
// function of the recorded list, recomputed on every call, so there is no
// cached state to invalidate.
type Tracker struct {
	cfg      Config
	attempts []*models.AttemptRecord
}

// NewTracker creates a tracker applying the given gate policy.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{cfg: cfg}
}

// Record appends a completed attempt to the history.
func (t *Tracker) Record(a *models.AttemptRecord) {
	t.attempts = append(t.attempts, a)
}

// Len returns the number of recorded attempts.
func (t *Tracker) Len() int {
	return len(t.attempts)
}

// Attempts returns the ordered attempt history.
func (t *Tracker) Attempts() []*models.AttemptRecord {
	return t.attempts
}

// Best selects the attempt to surface as final output: any accepted
// attempt wins outright; otherwise the fewest criticals, then the fewest
// warnings, then the latest attempt, since it incorporated the most
// feedback.
func (t *Tracker) Best() *models.AttemptRecord {
	for _, a := range t.attempts {
		if t.cfg.Accepts(a) {
			return a
		}
	}
	var best *models.AttemptRecord
	for _, a := range t.attempts {
		if best == nil || better(a, best) {
			best = a
		}
	}
	return best
}

func better(a, b *models.AttemptRecord) bool {
	if ac, bc := a.Report.CriticalCount(), b.Report.CriticalCount(); ac != bc {
		return ac < bc
	}
	if aw, bw := a.Report.WarningCount(), b.Report.WarningCount(); aw != bw {
		return aw < bw
	}
	return a.Index >= b.Index
}

// Finalize packages the run result: the best attempt, the full history,
// and duration/token totals summed over every attempt.
func (t *Tracker) Finalize(id, task string, startedAt time.Time) *models.RunResult {
	best := t.Best()
	status := models.RunStatusPartialSuccess
	if t.cfg.Accepts(best) {
		status = models.RunStatusSuccess
	}

	var totalDuration time.Duration
	var totalTokens int64
	for _, a := range t.attempts {
		totalDuration += a.Duration()
		totalTokens += a.Tokens()
	}

	return &models.RunResult{
		ID:            id,
		Task:          task,
		Status:        status,
		BestAttempt:   best,
		Attempts:      t.attempts,
		TotalDuration: totalDuration,
		TotalTokens:   totalTokens,
		StartedAt:     startedAt,
	}
}
