package exec

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/codegate-io/codegate/pkg/models"
)

// fakeRunner records the invocation and returns canned results.
type fakeRunner struct {
	output []byte
	err    error
	name   string
	args   []string
}

func (f *fakeRunner) Run(_ context.Context, _ string, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	return f.output, f.err
}

func TestComposeScript(t *testing.T) {
	artifact := &models.CodeArtifact{
		Code:         "def add(a: int, b: int) -> int:\n    return a + b",
		Dependencies: []string{"import math", "from typing import List"},
		TestCode:     "def test_add() -> None:\n    assert add(1, 2) == 3\n\ndef test_add_negative() -> None:\n    assert add(-1, -2) == -3",
	}

	script := ComposeScript(artifact)
	for _, want := range []string{
		"import math",
		"from typing import List",
		"def add(",
		"def test_add(",
		`if __name__ == "__main__":`,
		"    test_add()",
		"    test_add_negative()",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}

	// Imports must precede the function, and the main guard must be last.
	if strings.Index(script, "import math") > strings.Index(script, "def add(") {
		t.Error("imports should precede the function definition")
	}
	if strings.Index(script, "__main__") < strings.Index(script, "def test_add(") {
		t.Error("main guard should follow the test block")
	}
}

func TestComposeScriptWithoutTests(t *testing.T) {
	artifact := &models.CodeArtifact{Code: "def f() -> None:\n    pass"}
	script := ComposeScript(artifact)
	if strings.Contains(script, "__main__") {
		t.Error("no main guard expected without a test block")
	}
}

func TestExecuteSuccess(t *testing.T) {
	runner := &fakeRunner{output: []byte("2 test(s) passed\n")}
	p := NewPythonRunnerWith(runner, "python3", time.Second)

	res, err := p.Execute(context.Background(), &models.CodeArtifact{Code: "def f() -> None:\n    pass"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !strings.Contains(res.Output, "passed") {
		t.Errorf("Output = %q, want interpreter output", res.Output)
	}
	if runner.name != "python3" {
		t.Errorf("interpreter = %q, want python3", runner.name)
	}
	if len(runner.args) != 1 || !strings.HasSuffix(runner.args[0], "artifact.py") {
		t.Errorf("args = %v, want the script path", runner.args)
	}
}

func TestExecuteInfrastructureFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exec: \"python3\": executable file not found")}
	p := NewPythonRunnerWith(runner, "python3", time.Second)

	if _, err := p.Execute(context.Background(), &models.CodeArtifact{Code: "x = 1"}); err == nil {
		t.Fatal("Execute() error = nil, want infrastructure error")
	}
}
