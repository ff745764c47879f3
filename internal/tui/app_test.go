package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestAppShowsAttemptProgress(t *testing.T) {
	app := New("Write a CSV parser")

	model, _ := app.Update(AttemptStartMsg{Index: 1, MaxAttempts: 5})
	app = model.(*App)
	if !strings.Contains(app.View(), "attempt 1/5") {
		t.Error("expected in-progress attempt line")
	}

	model, _ = app.Update(AttemptDoneMsg{
		Index: 1, Critical: 2, Warning: 1, Passed: 4,
		Decision: "retry", Duration: 1500 * time.Millisecond,
	})
	app = model.(*App)

	view := app.View()
	for _, want := range []string{"attempt 1:", "2 critical", "1 warning", "4 passed", "retry"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppRunDoneQuits(t *testing.T) {
	app := New("task")
	model, cmd := app.Update(RunDoneMsg{Status: "success", BestIndex: 2, ReportPath: "reports/r.md"})
	app = model.(*App)
	if cmd == nil {
		t.Fatal("expected quit command on run completion")
	}
	view := app.View()
	if !strings.Contains(view, "Accepted on attempt 2") {
		t.Error("expected success outcome line")
	}
	if !strings.Contains(view, "reports/r.md") {
		t.Error("expected report path in outcome")
	}
}

func TestAppPartialSuccessOutcome(t *testing.T) {
	app := New("task")
	model, _ := app.Update(RunDoneMsg{Status: "partial_success", BestIndex: 3})
	app = model.(*App)
	if !strings.Contains(app.View(), "best was attempt 3") {
		t.Error("expected partial-success outcome line")
	}
}

func TestAppTokenUpdate(t *testing.T) {
	app := New("task")
	model, _ := app.Update(TokenUpdateMsg{Tokens: 1234, Cost: 0.0123})
	app = model.(*App)
	if !strings.Contains(app.View(), "tokens: 1234") {
		t.Error("expected token count in footer")
	}
}

func TestAppQuitKey(t *testing.T) {
	app := New("task")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	app = model.(*App)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !app.Quitting() {
		t.Error("expected quitting flag set")
	}
}
