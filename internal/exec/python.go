package exec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/codegate-io/codegate/pkg/models"
)

// DefaultTimeout bounds a single artifact execution.
const DefaultTimeout = 10 * time.Second

// testFnPattern finds test function names in a test block so the script
// can invoke them directly.
var testFnPattern = regexp.MustCompile(`(?m)^def\s+(test_\w+)\s*\(`)

// PythonRunner executes a generated artifact with a local python3
// interpreter. It implements the gate.Executor contract: the exit code
// and combined output feed the validator's execution check.
type PythonRunner struct {
	runner  CommandRunner
	python  string
	timeout time.Duration
}

// NewPythonRunner creates a runner with the default interpreter and timeout.
func NewPythonRunner() *PythonRunner {
	return &PythonRunner{
		runner:  NewRunner(),
		python:  "python3",
		timeout: DefaultTimeout,
	}
}

// NewPythonRunnerWith creates a runner with explicit collaborators, used
// by tests and non-default interpreter setups.
func NewPythonRunnerWith(runner CommandRunner, python string, timeout time.Duration) *PythonRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PythonRunner{runner: runner, python: python, timeout: timeout}
}

// Execute writes the artifact to a temporary script and runs it. The
// script imports declared dependencies, defines the function and its
// tests, then invokes every test function. A non-zero interpreter exit
// maps to the returned result; infrastructure failures (no interpreter,
// unwritable temp dir) return an error for the orchestrator to degrade.
func (p *PythonRunner) Execute(ctx context.Context, artifact *models.CodeArtifact) (*models.ExecutionResult, error) {
	dir, err := os.MkdirTemp("", "codegate-exec-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	script := ComposeScript(artifact)
	path := filepath.Join(dir, "artifact.py")
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		return nil, fmt.Errorf("write script: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	output, err := p.runner.Run(runCtx, dir, p.python, path)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &models.ExecutionResult{
				ExitCode: exitErr.ExitCode(),
				Output:   string(output),
			}, nil
		}
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("execution timed out after %s", p.timeout)
		}
		return nil, fmt.Errorf("run interpreter: %w", err)
	}

	return &models.ExecutionResult{ExitCode: 0, Output: string(output)}, nil
}

// ComposeScript assembles the runnable script: dependency imports, the
// function source, the test block, and a main guard invoking each test
// function the test block defines.
func ComposeScript(artifact *models.CodeArtifact) string {
	var b strings.Builder
	for _, dep := range artifact.Dependencies {
		b.WriteString(dep)
		b.WriteString("\n")
	}
	if len(artifact.Dependencies) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(artifact.Code)
	b.WriteString("\n")

	if artifact.TestCode != "" {
		b.WriteString("\n")
		b.WriteString(artifact.TestCode)
		b.WriteString("\n")

		if tests := testFnPattern.FindAllStringSubmatch(artifact.TestCode, -1); len(tests) > 0 {
			b.WriteString("\nif __name__ == \"__main__\":\n")
			for _, m := range tests {
				fmt.Fprintf(&b, "    %s()\n", m[1])
			}
			fmt.Fprintf(&b, "    print(\"%d test(s) passed\")\n", len(tests))
		}
	}

	return b.String()
}
