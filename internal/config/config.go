// Package config handles configuration loading for codegate.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for codegate.
type Config struct {
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	AWS        AWSConfig        `mapstructure:"aws"`
	Gate       GateConfig       `mapstructure:"gate"`
	Execution  ExecutionConfig  `mapstructure:"execution"`
	Assessment AssessmentConfig `mapstructure:"assessment"`
	Report     ReportConfig     `mapstructure:"report"`
	TUI        TUIConfig        `mapstructure:"tui"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// AWSConfig holds AWS Bedrock settings.
type AWSConfig struct {
	UseBedrock bool   `mapstructure:"use_bedrock"`
	Region     string `mapstructure:"region"`
	Profile    string `mapstructure:"profile"`
}

// GateConfig holds the quality gate policy.
type GateConfig struct {
	MaxAttempts      int  `mapstructure:"max_attempts"`
	WarningThreshold int  `mapstructure:"warning_threshold"`
	CriticalFatal    bool `mapstructure:"critical_fatal"`
}

// ExecutionConfig holds the execution collaborator settings.
type ExecutionConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Interpreter string        `mapstructure:"interpreter"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// AssessmentConfig holds the AI assessment collaborator settings.
type AssessmentConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	Dir string `mapstructure:"dir"`
}

// TUIConfig holds display settings.
type TUIConfig struct {
	RefreshRate time.Duration `mapstructure:"refresh_rate"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, AWS_REGION, AWS_PROFILE)
// 2. Project config (.codegate.yaml in current directory or a parent)
// 3. User config (~/.config/codegate/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Project config overrides the user config.
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("aws.region", "AWS_REGION")
	v.BindEnv("aws.profile", "AWS_PROFILE")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(userConfigDir, "config.yaml"))

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("aws.use_bedrock", cfg.AWS.UseBedrock)
	v.Set("aws.region", cfg.AWS.Region)
	v.Set("aws.profile", cfg.AWS.Profile)
	v.Set("gate.max_attempts", cfg.Gate.MaxAttempts)
	v.Set("gate.warning_threshold", cfg.Gate.WarningThreshold)
	v.Set("gate.critical_fatal", cfg.Gate.CriticalFatal)
	v.Set("execution.enabled", cfg.Execution.Enabled)
	v.Set("execution.interpreter", cfg.Execution.Interpreter)
	v.Set("execution.timeout", cfg.Execution.Timeout.String())
	v.Set("assessment.enabled", cfg.Assessment.Enabled)
	v.Set("report.dir", cfg.Report.Dir)
	v.Set("tui.refresh_rate", cfg.TUI.RefreshRate.String())

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it
// exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")

	v.SetDefault("aws.use_bedrock", false)
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.profile", "")

	v.SetDefault("gate.max_attempts", 5)
	v.SetDefault("gate.warning_threshold", 5)
	v.SetDefault("gate.critical_fatal", true)

	v.SetDefault("execution.enabled", true)
	v.SetDefault("execution.interpreter", "python3")
	v.SetDefault("execution.timeout", "10s")

	v.SetDefault("assessment.enabled", true)

	v.SetDefault("report.dir", "reports")

	v.SetDefault("tui.refresh_rate", "100ms")
}

// getUserConfigDir returns the XDG config directory for codegate.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "codegate")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "codegate")
	}
	return filepath.Join(home, ".config", "codegate")
}

// findProjectConfig searches for .codegate.yaml in the current directory
// and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".codegate.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Gate: GateConfig{
			MaxAttempts:      5,
			WarningThreshold: 5,
			CriticalFatal:    true,
		},
		Execution: ExecutionConfig{
			Enabled:     true,
			Interpreter: "python3",
			Timeout:     10 * time.Second,
		},
		Assessment: AssessmentConfig{
			Enabled: true,
		},
		Report: ReportConfig{
			Dir: "reports",
		},
		TUI: TUIConfig{
			RefreshRate: 100 * time.Millisecond,
		},
	}
}
