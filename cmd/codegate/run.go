package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codegate-io/codegate/internal/api"
	"github.com/codegate-io/codegate/internal/config"
	pyexec "github.com/codegate-io/codegate/internal/exec"
	"github.com/codegate-io/codegate/internal/gate"
	"github.com/codegate-io/codegate/internal/report"
	"github.com/codegate-io/codegate/internal/signals"
	"github.com/codegate-io/codegate/internal/state"
	"github.com/codegate-io/codegate/internal/validator"
	"github.com/codegate-io/codegate/pkg/models"

	"github.com/anthropics/anthropic-sdk-go"
)

var (
	runMaxAttempts      int
	runWarningThreshold int
	runNoExec           bool
	runNoAssess         bool
	runHeadless         bool
	runBedrock          bool
	runModel            string
	runReportDir        string
	runNoReport         bool
	runNoSave           bool
	runDenylist         string
	runTokenBudget      int64
)

var runCmd = &cobra.Command{
	Use:   "run <task>",
	Short: "Generate a Python function through the quality gate",
	Long: `Run the generate-validate-decide loop for a task.

The model generates an implementation, the validator inspects it
(syntax, imports, type hints, docstrings, error handling, security
patterns, naming, tests), the sandbox optionally executes its tests,
and the gate decides: accept, retry with synthesized feedback, or give
up at the attempt budget.

A markdown report is written for every run, and the run is recorded in
local history (see 'codegate history').

To stop a run early, press ctrl+c or create a stop file:
  touch .codegate/signals/stop
The best attempt so far is kept and reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTask,
}

func init() {
	runCmd.Flags().IntVar(&runMaxAttempts, "max-attempts", 0, "Attempt budget (default from config)")
	runCmd.Flags().IntVar(&runWarningThreshold, "warning-threshold", -1, "Maximum warnings an accepted attempt may carry")
	runCmd.Flags().BoolVar(&runNoExec, "no-exec", false, "Skip executing generated tests in a sandbox")
	runCmd.Flags().BoolVar(&runNoAssess, "no-assess", false, "Skip the AI quality assessment pass")
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "Run without TUI (plain log output)")
	runCmd.Flags().BoolVar(&runBedrock, "bedrock", false, "Use AWS Bedrock instead of the Anthropic API")
	runCmd.Flags().StringVar(&runModel, "model", "", "Override the generation model")
	runCmd.Flags().StringVar(&runReportDir, "report-dir", "", "Directory for the markdown report")
	runCmd.Flags().BoolVar(&runNoReport, "no-report", false, "Skip writing the markdown report")
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "Skip recording the run in history")
	runCmd.Flags().StringVar(&runDenylist, "denylist", "", "YAML file of custom security patterns")
	runCmd.Flags().Int64Var(&runTokenBudget, "token-budget", 0, "Stop after this many total tokens (0 = unlimited)")
}

func runTask(cmd *cobra.Command, args []string) error {
	task := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyRunFlags(cmd, cfg)

	if !cfg.AWS.UseBedrock && cfg.Anthropic.APIKey == "" {
		return fmt.Errorf("no credentials: set ANTHROPIC_API_KEY or use --bedrock")
	}

	client, err := api.NewClient(api.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.AWS.UseBedrock,
		AWSRegion:     cfg.AWS.Region,
		AWSProfile:    cfg.AWS.Profile,
	})
	if err != nil {
		return fmt.Errorf("create API client: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	watcher, err := signals.NewWatcher(workDir)
	if err != nil {
		return fmt.Errorf("create stop watcher: %w", err)
	}
	defer watcher.Close()
	watcher.Clear()

	gateCfg := gate.Config{
		MaxAttempts:      cfg.Gate.MaxAttempts,
		WarningThreshold: cfg.Gate.WarningThreshold,
		CriticalFatal:    cfg.Gate.CriticalFatal,
		ExecutionEnabled: cfg.Execution.Enabled,
	}

	val := validator.New()
	if runDenylist != "" {
		patterns, err := validator.LoadDenylist(runDenylist)
		if err != nil {
			return fmt.Errorf("load denylist: %w", err)
		}
		val = validator.NewWithDenylist(patterns)
	}

	orch := gate.New(gateCfg, api.NewGenerator(client), val)
	orch.Stop = watcher.ShouldStop
	if runTokenBudget > 0 {
		// Budget exhaustion is a stop request: the run finalizes with the
		// best attempt so far rather than erroring.
		orch.Stop = func() bool {
			if watcher.ShouldStop() {
				return true
			}
			input, output := client.Tracker().Total()
			return input+output >= runTokenBudget
		}
	}
	if cfg.Execution.Enabled {
		orch.Executor = pyexec.NewPythonRunnerWith(&pyexec.ExecRunner{}, cfg.Execution.Interpreter, cfg.Execution.Timeout)
	}
	if cfg.Assessment.Enabled {
		orch.Assessor = api.NewAssessor(client)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if runHeadless {
		return runHeadlessMode(ctx, orch, client, cfg, task)
	}
	return runTUIMode(ctx, orch, client, cfg, task)
}

// applyRunFlags layers explicit command-line flags over the loaded config.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("max-attempts") {
		cfg.Gate.MaxAttempts = runMaxAttempts
	}
	if flags.Changed("warning-threshold") {
		cfg.Gate.WarningThreshold = runWarningThreshold
	}
	if runNoExec {
		cfg.Execution.Enabled = false
	}
	if runNoAssess {
		cfg.Assessment.Enabled = false
	}
	if runBedrock {
		cfg.AWS.UseBedrock = true
	}
	if runModel != "" {
		cfg.Anthropic.Model = runModel
	}
	if runReportDir != "" {
		cfg.Report.Dir = runReportDir
	}
}

func runHeadlessMode(ctx context.Context, orch *gate.Orchestrator, client *api.Client, cfg *config.Config, task string) error {
	result, err := orch.Run(ctx, task)
	if err != nil {
		return err
	}
	reportPath := finishRun(cfg, result)
	printRunSummary(result, client, reportPath)
	return nil
}

// finishRun writes the report and records the run, returning the report
// path (empty when reporting is disabled or fails).
func finishRun(cfg *config.Config, result *models.RunResult) string {
	reportPath := ""
	if !runNoReport {
		path, err := report.WriteFile(cfg.Report.Dir, result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not write report: %v\n", err)
		} else {
			reportPath = path
		}
	}

	if !runNoSave {
		if err := saveRun(result); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
		}
	}
	return reportPath
}

func saveRun(result *models.RunResult) error {
	db, err := state.OpenGlobal()
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}
	return db.SaveRun(result)
}

func printRunSummary(result *models.RunResult, client *api.Client, reportPath string) {
	fmt.Println()
	switch result.Status {
	case models.RunStatusSuccess:
		fmt.Printf("%s accepted on attempt %d of %d\n",
			color.GreenString("✓"), result.BestAttempt.Index, len(result.Attempts))
	default:
		best := 0
		if result.BestAttempt != nil {
			best = result.BestAttempt.Index
		}
		fmt.Printf("%s no attempt passed the gate; best was attempt %d of %d\n",
			color.YellowString("⚠"), best, len(result.Attempts))
	}

	if best := result.BestAttempt; best != nil {
		fmt.Printf("  critical: %s  warnings: %s  passed: %s\n",
			color.RedString("%d", best.Report.CriticalCount()),
			color.YellowString("%d", best.Report.WarningCount()),
			color.GreenString("%d", best.Report.PassedCount()))
		if best.Artifact.FunctionName != "" {
			fmt.Printf("  function: %s\n", best.Artifact.FunctionName)
		}
	}

	fmt.Printf("  duration: %.1fs  tokens: %d  cost: ~$%.4f\n",
		result.TotalDuration.Seconds(), result.TotalTokens, client.Tracker().Cost())
	if reportPath != "" {
		fmt.Printf("  report:   %s\n", reportPath)
	}
}
