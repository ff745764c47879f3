package models

// ValidationReport aggregates the findings from one validation pass over a
// generated artifact. Issues appear in check execution order; the severity
// counts are always derived from the issue list, so they cannot drift.
type ValidationReport struct {
	// Issues is the ordered list of findings (insertion order = check order).
	Issues []Issue `json:"issues"`
	// AIScore is the optional AI-assessed quality score (0-10).
	// Nil unless an assessment collaborator was invoked. Advisory only;
	// never part of the accept decision.
	AIScore *float64 `json:"ai_score,omitempty"`
	// AIMaintainability is the optional AI-assessed maintainability score (0-10).
	AIMaintainability *float64 `json:"ai_maintainability,omitempty"`
}

// Add appends an issue to the report.
func (r *ValidationReport) Add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// CriticalCount returns the number of Critical issues.
func (r *ValidationReport) CriticalCount() int {
	return r.countBySeverity(SeverityCritical)
}

// WarningCount returns the number of Warning issues.
func (r *ValidationReport) WarningCount() int {
	return r.countBySeverity(SeverityWarning)
}

// PassedCount returns the number of Passed (informational) entries.
func (r *ValidationReport) PassedCount() int {
	return r.countBySeverity(SeverityPassed)
}

func (r *ValidationReport) countBySeverity(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// BySeverity returns all issues with the given severity, in report order.
func (r *ValidationReport) BySeverity(s Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == s {
			out = append(out, issue)
		}
	}
	return out
}

// ByCategory returns all issues in the given category, in report order.
func (r *ValidationReport) ByCategory(c Category) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Category == c {
			out = append(out, issue)
		}
	}
	return out
}

// Problems returns all Critical and Warning issues, in report order.
func (r *ValidationReport) Problems() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity != SeverityPassed {
			out = append(out, issue)
		}
	}
	return out
}
