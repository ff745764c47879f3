package models

import "testing"

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityCritical, "critical"},
		{SeverityWarning, "warning"},
		{SeverityPassed, "passed"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSeverity_Valid(t *testing.T) {
	for _, s := range []Severity{SeverityCritical, SeverityWarning, SeverityPassed} {
		if !s.Valid() {
			t.Errorf("Valid() = false for %s", s)
		}
	}
	if Severity(-1).Valid() {
		t.Error("Valid() = true for -1")
	}
	if Severity(3).Valid() {
		t.Error("Valid() = true for 3")
	}
}

func TestCategory_Valid(t *testing.T) {
	known := []Category{
		CategorySyntax, CategoryTypeHints, CategoryDocstring,
		CategoryErrorHandling, CategorySecurity, CategoryStyle,
		CategoryDependency, CategoryTest, CategoryExecution, CategoryOther,
	}
	for _, c := range known {
		if !c.Valid() {
			t.Errorf("Valid() = false for %s", c)
		}
	}
	if Category("bogus").Valid() {
		t.Error("Valid() = true for bogus category")
	}
}

func TestIssueConstructors(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  Severity
	}{
		{"critical", Critical(CategorySyntax, "unparsable"), SeverityCritical},
		{"warning", Warning(CategoryStyle, "bad name"), SeverityWarning},
		{"passed", Passed(CategorySecurity, "clean"), SeverityPassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.issue.Severity != tt.want {
				t.Errorf("Severity = %v, want %v", tt.issue.Severity, tt.want)
			}
			if tt.issue.Message == "" {
				t.Error("Message should not be empty")
			}
		})
	}
}
