package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/codegate-io/codegate/internal/api"
	"github.com/codegate-io/codegate/internal/config"
	"github.com/codegate-io/codegate/internal/gate"
	"github.com/codegate-io/codegate/internal/tui"
	"github.com/codegate-io/codegate/pkg/models"
)

// runTUIMode drives the run with a live terminal display. The orchestrator
// runs in a goroutine and streams attempt progress into the bubbletea
// program; the gate's own log output is silenced so it cannot corrupt the
// display.
func runTUIMode(ctx context.Context, orch *gate.Orchestrator, client *api.Client, cfg *config.Config, task string) error {
	app := tui.New(task)
	program := tea.NewProgram(app)

	prevOut := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(prevOut)

	orch.OnAttemptStart = func(index, maxAttempts int) {
		program.Send(tui.AttemptStartMsg{Index: index, MaxAttempts: maxAttempts})
	}
	orch.OnAttemptDone = func(attempt *models.AttemptRecord, decision gate.Decision) {
		program.Send(tui.AttemptDoneMsg{
			Index:    attempt.Index,
			Critical: attempt.Report.CriticalCount(),
			Warning:  attempt.Report.WarningCount(),
			Passed:   attempt.Report.PassedCount(),
			Decision: decision.String(),
			Duration: attempt.Duration(),
		})
		program.Send(tui.TokenUpdateMsg{
			Tokens: trackerTotal(client),
			Cost:   client.Tracker().Cost(),
		})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var result *models.RunResult
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		var runErr error
		result, runErr = orch.Run(ctx, task)
		reportPath := ""
		if runErr == nil && result != nil {
			reportPath = finishRun(cfg, result)
		}
		done := tui.RunDoneMsg{Err: runErr, ReportPath: reportPath}
		if result != nil {
			done.Status = string(result.Status)
			if result.BestAttempt != nil {
				done.BestIndex = result.BestAttempt.Index
			}
		}
		program.Send(done)
	}()

	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}

	if final, ok := finalModel.(*tui.App); ok && final.Quitting() {
		// The user quit before the run finished; the orchestrator sees the
		// cancelled context and finalizes with the best attempt so far.
		fmt.Fprintln(os.Stderr, "run interrupted")
		cancel()
	}
	<-finished

	if result != nil {
		printRunSummary(result, client, "")
	}
	return nil
}

func trackerTotal(client *api.Client) int64 {
	input, output := client.Tracker().Total()
	return input + output
}
