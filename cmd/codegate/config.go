package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/codegate-io/codegate/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify codegate configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/codegate/config.yaml
Project-specific overrides can be placed in .codegate.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	// Mask API key if set
	apiKeyDisplay := "(not set)"
	if cfg.Anthropic.APIKey != "" {
		apiKeyDisplay = "****"
	}

	fmt.Printf("anthropic.api_key: %s\n", apiKeyDisplay)
	fmt.Printf("anthropic.model: %s\n", cfg.Anthropic.Model)
	fmt.Printf("aws.use_bedrock: %t\n", cfg.AWS.UseBedrock)
	fmt.Printf("aws.region: %s\n", cfg.AWS.Region)
	fmt.Printf("aws.profile: %s\n", cfg.AWS.Profile)
	fmt.Printf("gate.max_attempts: %d\n", cfg.Gate.MaxAttempts)
	fmt.Printf("gate.warning_threshold: %d\n", cfg.Gate.WarningThreshold)
	fmt.Printf("gate.critical_fatal: %t\n", cfg.Gate.CriticalFatal)
	fmt.Printf("execution.enabled: %t\n", cfg.Execution.Enabled)
	fmt.Printf("execution.interpreter: %s\n", cfg.Execution.Interpreter)
	fmt.Printf("execution.timeout: %s\n", cfg.Execution.Timeout)
	fmt.Printf("assessment.enabled: %t\n", cfg.Assessment.Enabled)
	fmt.Printf("report.dir: %s\n", cfg.Report.Dir)
	fmt.Printf("tui.refresh_rate: %s\n", cfg.TUI.RefreshRate)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		if cfg.Anthropic.APIKey == "" {
			return "(not set)", nil
		}
		return "****", nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "aws.use_bedrock":
		return strconv.FormatBool(cfg.AWS.UseBedrock), nil
	case "aws.region":
		return cfg.AWS.Region, nil
	case "aws.profile":
		return cfg.AWS.Profile, nil
	case "gate.max_attempts":
		return strconv.Itoa(cfg.Gate.MaxAttempts), nil
	case "gate.warning_threshold":
		return strconv.Itoa(cfg.Gate.WarningThreshold), nil
	case "gate.critical_fatal":
		return strconv.FormatBool(cfg.Gate.CriticalFatal), nil
	case "execution.enabled":
		return strconv.FormatBool(cfg.Execution.Enabled), nil
	case "execution.interpreter":
		return cfg.Execution.Interpreter, nil
	case "execution.timeout":
		return cfg.Execution.Timeout.String(), nil
	case "assessment.enabled":
		return strconv.FormatBool(cfg.Assessment.Enabled), nil
	case "report.dir":
		return cfg.Report.Dir, nil
	case "tui.refresh_rate":
		return cfg.TUI.RefreshRate.String(), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "aws.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for use_bedrock: %w", err)
		}
		cfg.AWS.UseBedrock = b
	case "aws.region":
		cfg.AWS.Region = value
	case "aws.profile":
		cfg.AWS.Profile = value
	case "gate.max_attempts":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_attempts: %w", err)
		}
		cfg.Gate.MaxAttempts = n
	case "gate.warning_threshold":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for warning_threshold: %w", err)
		}
		cfg.Gate.WarningThreshold = n
	case "gate.critical_fatal":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for critical_fatal: %w", err)
		}
		cfg.Gate.CriticalFatal = b
	case "execution.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for enabled: %w", err)
		}
		cfg.Execution.Enabled = b
	case "execution.interpreter":
		cfg.Execution.Interpreter = value
	case "execution.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for timeout: %w", err)
		}
		cfg.Execution.Timeout = d
	case "assessment.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for enabled: %w", err)
		}
		cfg.Assessment.Enabled = b
	case "report.dir":
		cfg.Report.Dir = value
	case "tui.refresh_rate":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for refresh_rate: %w", err)
		}
		cfg.TUI.RefreshRate = d
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
