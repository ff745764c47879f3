// Package validator runs the static quality-check battery over generated
// code artifacts and produces aggregated validation reports.
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/codegate-io/codegate/pkg/models"
)

// importStmt matches a syntactically well-formed Python import statement.
var importStmt = regexp.MustCompile(`^\s*(import\s+[A-Za-z_][\w.]*(\s+as\s+\w+)?(\s*,\s*[A-Za-z_][\w.]*(\s+as\s+\w+)?)*|from\s+\.{0,2}[A-Za-z_][\w.]*\s+import\s+.+)\s*$`)

// Validator runs a fixed, ordered battery of static checks over a code
// artifact. Checks are independent and side-effect-free; validating the
// same artifact twice yields identical reports.
type Validator struct {
	denylist []SecurityPattern
}

// New creates a Validator with the default security denylist.
func New() *Validator {
	return &Validator{denylist: DefaultDenylist()}
}

// NewWithDenylist creates a Validator with a custom security denylist.
func NewWithDenylist(patterns []SecurityPattern) *Validator {
	return &Validator{denylist: patterns}
}

// Validate runs all checks in order and returns the aggregated report.
// Checks that need a parse tree are skipped when the source does not scan;
// raw-text checks (dependencies, security) always run. A check that panics
// is recorded as a single Critical issue in the Other category and the
// remaining checks still run.
func (v *Validator) Validate(artifact *models.CodeArtifact) *models.ValidationReport {
	report := &models.ValidationReport{}

	var src *Source
	v.runCheck("syntax", report, func() {
		src = v.checkSyntax(artifact, report)
	})
	v.runCheck("dependencies", report, func() {
		v.checkDependencies(artifact, report)
	})
	if src != nil {
		v.runCheck("type hints", report, func() {
			v.checkTypeHints(src, report)
		})
		v.runCheck("docstrings", report, func() {
			v.checkDocstrings(src, report)
		})
		v.runCheck("error handling", report, func() {
			v.checkErrorHandling(src, report)
		})
	}
	v.runCheck("security", report, func() {
		v.checkSecurity(artifact, report)
	})
	if src != nil {
		v.runCheck("naming", report, func() {
			v.checkNaming(src, report)
		})
	}
	v.runCheck("test code", report, func() {
		v.checkTestCode(artifact, report)
	})
	v.runCheck("execution", report, func() {
		v.checkExecution(artifact, report)
	})

	// AI assessment scores pass through unchanged; the validator never
	// calls a model itself.
	if artifact.Assessment != nil {
		score := artifact.Assessment.Score
		maint := artifact.Assessment.Maintainability
		report.AIScore = &score
		report.AIMaintainability = &maint
	}

	return report
}

// runCheck invokes a single check, converting a panic inside the check
// into a Critical issue so the rest of the battery still runs.
func (v *Validator) runCheck(name string, report *models.ValidationReport, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			report.Add(models.Critical(models.CategoryOther,
				fmt.Sprintf("%s check failed internally: %v", name, r)))
		}
	}()
	fn()
}

// checkSyntax scans the source. On failure it records one Critical issue
// and returns nil so the structure-dependent checks are skipped.
func (v *Validator) checkSyntax(artifact *models.CodeArtifact, report *models.ValidationReport) *Source {
	src, err := ScanPython(artifact.Code)
	if err != nil {
		report.Add(models.Critical(models.CategorySyntax,
			fmt.Sprintf("syntax error: %v", err)))
		return nil
	}
	report.Add(models.Passed(models.CategorySyntax, "source parses cleanly"))
	return src
}

// checkDependencies validates each declared dependency string. Duplicates
// are each checked independently: every declared import is its own contract.
func (v *Validator) checkDependencies(artifact *models.CodeArtifact, report *models.ValidationReport) {
	for _, dep := range artifact.Dependencies {
		if importStmt.MatchString(dep) {
			report.Add(models.Passed(models.CategoryDependency,
				fmt.Sprintf("dependency %q is a well-formed import", dep)))
		} else {
			report.Add(models.Warning(models.CategoryDependency,
				fmt.Sprintf("dependency %q is not a well-formed import statement", dep)))
		}
	}
}

// checkTypeHints verifies that every function annotates its parameters and
// return value. A source with zero functions is vacuously compliant.
func (v *Validator) checkTypeHints(src *Source, report *models.ValidationReport) {
	for _, fn := range src.Functions {
		var missing []string
		for _, p := range fn.Params {
			if !p.Annotated {
				missing = append(missing, p.Name)
			}
		}
		switch {
		case !fn.HasReturnAnnotation && len(missing) > 0:
			report.Add(models.Warning(models.CategoryTypeHints,
				fmt.Sprintf("function %q missing return annotation and parameter annotations: %s",
					fn.Name, strings.Join(missing, ", "))))
		case !fn.HasReturnAnnotation:
			report.Add(models.Warning(models.CategoryTypeHints,
				fmt.Sprintf("function %q missing return type annotation", fn.Name)))
		case len(missing) > 0:
			report.Add(models.Warning(models.CategoryTypeHints,
				fmt.Sprintf("function %q missing annotations for parameters: %s",
					fn.Name, strings.Join(missing, ", "))))
		default:
			report.Add(models.Passed(models.CategoryTypeHints,
				fmt.Sprintf("function %q is fully annotated", fn.Name)))
		}
	}
}

// checkDocstrings verifies that every function opens with a docstring.
func (v *Validator) checkDocstrings(src *Source, report *models.ValidationReport) {
	for _, fn := range src.Functions {
		if fn.HasDocstring {
			report.Add(models.Passed(models.CategoryDocstring,
				fmt.Sprintf("function %q has a docstring", fn.Name)))
		} else {
			report.Add(models.Warning(models.CategoryDocstring,
				fmt.Sprintf("function %q missing docstring", fn.Name)))
		}
	}
}

// checkErrorHandling looks for at least one exception-handling or
// error-raising construct per function body.
func (v *Validator) checkErrorHandling(src *Source, report *models.ValidationReport) {
	for _, fn := range src.Functions {
		body := strings.Join(fn.Body, "\n")
		if strings.Contains(body, "try:") || strings.Contains(body, "except") ||
			strings.Contains(body, "raise ") {
			report.Add(models.Passed(models.CategoryErrorHandling,
				fmt.Sprintf("function %q handles or raises errors", fn.Name)))
		} else {
			report.Add(models.Warning(models.CategoryErrorHandling,
				fmt.Sprintf("function %q has no error handling", fn.Name)))
		}
	}
}

// checkSecurity scans the raw source for denylisted patterns. It runs even
// on unparsable artifacts.
func (v *Validator) checkSecurity(artifact *models.CodeArtifact, report *models.ValidationReport) {
	found := false
	for _, p := range v.denylist {
		if strings.Contains(artifact.Code, p.Pattern) {
			report.Add(models.Warning(models.CategorySecurity, p.Message))
			found = true
		}
	}
	if !found {
		report.Add(models.Passed(models.CategorySecurity, "no denylisted patterns detected"))
	}
}

// checkNaming flags function identifiers that do not follow snake_case.
func (v *Validator) checkNaming(src *Source, report *models.ValidationReport) {
	clean := true
	for _, fn := range src.Functions {
		if !IsSnakeCase(fn.Name) {
			report.Add(models.Warning(models.CategoryStyle,
				fmt.Sprintf("function %q should follow snake_case", fn.Name)))
			clean = false
		}
	}
	if clean && len(src.Functions) > 0 {
		report.Add(models.Passed(models.CategoryStyle, "function names follow snake_case"))
	}
}

// checkTestCode validates a supplied test block: it must scan on its own,
// contain at least one test_-prefixed function, and assert something.
// Absent test blocks are not flagged here.
func (v *Validator) checkTestCode(artifact *models.CodeArtifact, report *models.ValidationReport) {
	if artifact.TestCode == "" {
		return
	}

	src, err := ScanPython(artifact.TestCode)
	if err != nil {
		report.Add(models.Warning(models.CategoryTest,
			fmt.Sprintf("test code does not parse: %v", err)))
		return
	}

	hasTestFn := false
	for _, fn := range src.Functions {
		if strings.HasPrefix(fn.Name, "test_") && IsSnakeCase(fn.Name) {
			hasTestFn = true
			break
		}
	}
	if hasTestFn {
		report.Add(models.Passed(models.CategoryTest, "test functions follow the test_ convention"))
	} else {
		report.Add(models.Warning(models.CategoryTest, "no test_-prefixed test function found"))
	}

	if strings.Contains(artifact.TestCode, "assert") {
		report.Add(models.Passed(models.CategoryTest, "test assertions present"))
	} else {
		report.Add(models.Warning(models.CategoryTest, "no assertions found in test code"))
	}
}

// checkExecution reads the attached execution collaborator result, if any.
// The validator is strictly pass-through here; it never runs code.
func (v *Validator) checkExecution(artifact *models.CodeArtifact, report *models.ValidationReport) {
	if artifact.Execution == nil {
		return
	}
	if artifact.Execution.ExitCode != 0 {
		msg := fmt.Sprintf("execution failed with exit code %d", artifact.Execution.ExitCode)
		if out := strings.TrimSpace(artifact.Execution.Output); out != "" {
			msg += ": " + lastLine(out)
		}
		report.Add(models.Critical(models.CategoryExecution, msg))
	} else {
		report.Add(models.Passed(models.CategoryExecution, "execution completed successfully"))
	}
}

// lastLine returns the final non-empty line of a block of output.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
