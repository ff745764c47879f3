package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codegate",
	Short: "Quality-gated AI code generation",
	Long: `Codegate generates Python functions with an AI model and refuses to
hand back code that does not pass its quality gate.

Each run is a loop: generate an implementation, validate it (syntax,
type hints, docstrings, error handling, security patterns, naming,
tests, and optionally execution), then decide. Clean code is accepted;
flawed code earns targeted feedback and another attempt, up to the
configured budget. If no attempt passes, the best one is returned as a
partial success with its full findings.

Every run produces a markdown report and is recorded in local history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
