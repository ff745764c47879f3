package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codegate-io/codegate/internal/state"
	"github.com/codegate-io/codegate/pkg/models"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past runs",
	Long: `List recorded runs, or show one run in detail.

Without arguments, lists the most recent runs. With a run ID, shows
the run's attempts and their findings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := state.OpenGlobal()
		if err != nil {
			return fmt.Errorf("open history database: %w", err)
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("migrate history database: %w", err)
		}

		if len(args) == 1 {
			return showRun(db, args[0])
		}
		return listRuns(db)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
}

func listRuns(db *state.DB) error {
	runs, err := db.ListRuns(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %s  %s  %d attempt(s)  %.1fs  %d tokens\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			statusBadge(run.Status),
			shortID(run.ID),
			run.AttemptCount,
			run.TotalDuration.Seconds(),
			run.TotalTokens)
		fmt.Printf("    %s\n", truncateTask(run.Task, 76))
	}
	return nil
}

func showRun(db *state.DB, id string) error {
	run, attempts, err := db.GetRun(id)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s\n", run.ID)
	fmt.Printf("  status:   %s\n", statusBadge(run.Status))
	fmt.Printf("  started:  %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  task:     %s\n", truncateTask(run.Task, 72))
	fmt.Printf("  attempts: %d (best: #%d)\n", run.AttemptCount, run.BestAttempt)
	fmt.Printf("  duration: %.1fs  tokens: %d\n\n", run.TotalDuration.Seconds(), run.TotalTokens)

	for _, a := range attempts {
		marker := " "
		if a.Index == run.BestAttempt {
			marker = "*"
		}
		name := a.FunctionName
		if name == "" {
			name = "(no artifact)"
		}
		fmt.Printf("%s attempt %d: %s: %s critical, %s warning, %s passed (%.1fs, %d tokens)\n",
			marker, a.Index, name,
			color.RedString("%d", a.CriticalCount),
			color.YellowString("%d", a.WarningCount),
			color.GreenString("%d", a.PassedCount),
			a.Duration.Seconds(), a.Tokens)
		for _, issue := range a.Issues {
			if issue.Severity == models.SeverityPassed {
				continue
			}
			fmt.Printf("    [%s/%s] %s\n", issue.Severity, issue.Category, issue.Message)
		}
	}
	return nil
}

func statusBadge(status models.RunStatus) string {
	switch status {
	case models.RunStatusSuccess:
		return color.GreenString("success")
	case models.RunStatusPartialSuccess:
		return color.YellowString("partial")
	default:
		return string(status)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncateTask(task string, maxLen int) string {
	task = strings.ReplaceAll(task, "\n", " ")
	if len(task) <= maxLen {
		return task
	}
	return task[:maxLen-3] + "..."
}
