package gate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/codegate-io/codegate/pkg/models"
)

const (
	// DefaultFeedbackMaxChars bounds the synthesized directive length.
	DefaultFeedbackMaxChars = 2000
	// DefaultFeedbackPerCategory caps representative messages per category.
	DefaultFeedbackPerCategory = 3
)

// feedbackOrder fixes the category ordering of synthesized feedback so the
// same report always renders the same directive.
var feedbackOrder = []models.Category{
	models.CategorySyntax,
	models.CategoryDependency,
	models.CategoryTypeHints,
	models.CategoryDocstring,
	models.CategoryErrorHandling,
	models.CategorySecurity,
	models.CategoryStyle,
	models.CategoryTest,
	models.CategoryExecution,
	models.CategoryOther,
}

// Synthesizer turns a validation report into a bounded retry directive.
// It is pure formatting: no randomness, no external calls.
type Synthesizer struct {
	// MaxChars caps the rendered directive length.
	MaxChars int
	// PerCategory caps how many representative messages each category shows.
	PerCategory int
}

// NewSynthesizer returns a synthesizer with the default bounds.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{
		MaxChars:    DefaultFeedbackMaxChars,
		PerCategory: DefaultFeedbackPerCategory,
	}
}

// Synthesize renders the report's problems as a category-grouped directive
// for the next generation attempt. Categories with no critical or warning
// issues are omitted. Returns the empty string for a clean report.
func (s *Synthesizer) Synthesize(report *models.ValidationReport) string {
	var b strings.Builder
	for _, cat := range feedbackOrder {
		var problems []models.Issue
		for _, iss := range report.ByCategory(cat) {
			if iss.Severity != models.SeverityPassed {
				problems = append(problems, iss)
			}
		}
		if len(problems) == 0 {
			continue
		}

		if b.Len() == 0 {
			b.WriteString("The previous attempt did not pass quality validation. Fix the following:\n")
		}
		fmt.Fprintf(&b, "- %s (%d issue(s)):\n", cat, len(problems))
		shown := len(problems)
		if shown > s.PerCategory {
			shown = s.PerCategory
		}
		for _, iss := range problems[:shown] {
			fmt.Fprintf(&b, "  - [%s] %s\n", iss.Severity, iss.Message)
		}
		if rest := len(problems) - shown; rest > 0 {
			fmt.Fprintf(&b, "  - ... and %d more\n", rest)
		}
	}

	out := strings.TrimRight(b.String(), "\n")
	if len(out) > s.MaxChars {
		out = truncateAtLine(out, s.MaxChars)
	}
	return out
}

// truncateAtLine cuts text to at most max bytes, preferring the last full
// line so the directive never ends mid-message. When no newline falls in
// the window, the cut point backs up to a rune boundary so the tail stays
// valid UTF-8.
func truncateAtLine(text string, max int) string {
	cut := text[:max]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		return cut[:i]
	}
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size != 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut
}
