// Package models defines the shared data types for codegate: quality
// findings, validation reports, generated artifacts, and run results.
package models

// Severity classifies how serious a quality finding is.
type Severity int

const (
	// SeverityCritical indicates a blocking problem that prevents acceptance.
	SeverityCritical Severity = iota
	// SeverityWarning indicates a non-blocking quality problem.
	SeverityWarning
	// SeverityPassed indicates an informational confirmation, not a problem.
	SeverityPassed
)

// String returns the string representation of a Severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	case SeverityPassed:
		return "passed"
	default:
		return "unknown"
	}
}

// Valid returns true if the severity is a known value.
func (s Severity) Valid() bool {
	return s >= SeverityCritical && s <= SeverityPassed
}

// Category identifies which quality check produced an issue.
type Category string

const (
	// CategorySyntax covers source parse failures.
	CategorySyntax Category = "syntax"
	// CategoryTypeHints covers missing parameter or return annotations.
	CategoryTypeHints Category = "type_hints"
	// CategoryDocstring covers missing function documentation.
	CategoryDocstring Category = "docstring"
	// CategoryErrorHandling covers absent exception handling.
	CategoryErrorHandling Category = "error_handling"
	// CategorySecurity covers denylisted dangerous patterns.
	CategorySecurity Category = "security"
	// CategoryStyle covers naming convention violations.
	CategoryStyle Category = "style"
	// CategoryDependency covers malformed dependency declarations.
	CategoryDependency Category = "dependency"
	// CategoryTest covers problems in the supplied test block.
	CategoryTest Category = "test"
	// CategoryExecution covers execution collaborator results.
	CategoryExecution Category = "execution"
	// CategoryOther covers synthetic issues (collaborator failures,
	// internal check errors).
	CategoryOther Category = "other"
)

// Valid returns true if the category is a known value.
func (c Category) Valid() bool {
	switch c {
	case CategorySyntax, CategoryTypeHints, CategoryDocstring,
		CategoryErrorHandling, CategorySecurity, CategoryStyle,
		CategoryDependency, CategoryTest, CategoryExecution, CategoryOther:
		return true
	default:
		return false
	}
}

// Issue represents a single quality finding produced by a validation check.
type Issue struct {
	// Severity is how serious the finding is.
	Severity Severity `json:"severity"`
	// Category identifies the check that produced the finding.
	Category Category `json:"category"`
	// Message is the human-readable description.
	Message string `json:"message"`
}

// Critical creates a Critical issue.
func Critical(category Category, message string) Issue {
	return Issue{Severity: SeverityCritical, Category: category, Message: message}
}

// Warning creates a Warning issue.
func Warning(category Category, message string) Issue {
	return Issue{Severity: SeverityWarning, Category: category, Message: message}
}

// Passed creates a Passed (informational) issue.
func Passed(category Category, message string) Issue {
	return Issue{Severity: SeverityPassed, Category: category, Message: message}
}
