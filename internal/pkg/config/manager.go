package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/bumpdecider/bumpdecider/internal/pkg/errors"
)

const (
	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "BUMPDECIDER"
	// DefaultConfigFileExt is the settings file format.
	DefaultConfigFileExt = "yaml"
	// DefaultHistoryFile is the run history location relative to the working directory.
	DefaultHistoryFile = ".bumpdecider/history.json"
)

// settingKeys lists every key that can be overridden from the environment.
var settingKeys = []string{
	"bump_tool.command",
	"bump_tool.install",
	"bump_tool.install_command",
	"bump_tool.timeout_seconds",
	"git.command",
	"git.timeout_seconds",
	"git.push_timeout_seconds",
	"ui.color_enabled",
	"history.enabled",
	"history.max_entries",
	"history.file_path",
}

// ViperManager implements the Manager interface using Viper.
type ViperManager struct {
	v          *viper.Viper
	configPath string
}

// NewManager creates a new settings manager.
// If configPath is empty, only defaults and environment variables are used.
func NewManager(configPath string) (*ViperManager, error) {
	v := viper.New()
	v.SetConfigType(DefaultConfigFileExt)

	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	// Set up environment variable binding
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults first (required for env binding to work with nested keys)
	setDefaults(v)
	bindEnvVars(v)

	return &ViperManager{
		v:          v,
		configPath: configPath,
	}, nil
}

// bindEnvVars explicitly binds environment variables for all settings keys.
// AutomaticEnv alone does not resolve nested keys during Unmarshal.
func bindEnvVars(v *viper.Viper) {
	for _, key := range settingKeys {
		_ = v.BindEnv(key, EnvVarName(key))
	}
}

// EnvVarName returns the environment variable that overrides key.
func EnvVarName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// setDefaults sets the default settings values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bump_tool.command", "bumpversion")
	v.SetDefault("bump_tool.install", false)
	v.SetDefault("bump_tool.install_command", []string{"pip", "install", "bump2version"})
	v.SetDefault("bump_tool.timeout_seconds", 120)

	v.SetDefault("git.command", "git")
	v.SetDefault("git.timeout_seconds", 10)
	v.SetDefault("git.push_timeout_seconds", 60)

	v.SetDefault("ui.color_enabled", true)

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.max_entries", 500)
	v.SetDefault("history.file_path", DefaultHistoryFile)
}

// GetConfigPath returns the path to the settings file, or "" when none is used.
func (m *ViperManager) GetConfigPath() string {
	return m.configPath
}

// Load loads the settings from file, environment, and defaults.
// Priority: env > file > defaults
func (m *ViperManager) Load() (*Config, error) {
	if m.configPath != "" {
		if err := m.v.ReadInConfig(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to read settings file").
				WithContext("path", m.configPath)
		}
	}

	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to unmarshal settings")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that would otherwise fail later at run time.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BumpTool.Command) == "" {
		return apperrors.NewInvalidConfigError("bump_tool.command must not be empty")
	}
	if c.BumpTool.Install && len(c.BumpTool.InstallCommand) == 0 {
		return apperrors.NewInvalidConfigError("bump_tool.install_command must not be empty when bump_tool.install is set")
	}
	if strings.TrimSpace(c.Git.Command) == "" {
		return apperrors.NewInvalidConfigError("git.command must not be empty")
	}
	if c.BumpTool.TimeoutSeconds <= 0 || c.Git.TimeoutSeconds <= 0 || c.Git.PushTimeoutSeconds <= 0 {
		return apperrors.NewInvalidConfigError("timeouts must be positive")
	}
	if c.History.Enabled && c.History.FilePath == "" {
		return apperrors.NewInvalidConfigError("history.file_path must be set when history is enabled")
	}
	return nil
}

// Init writes a settings file with default values.
func (m *ViperManager) Init() error {
	if m.configPath == "" {
		return fmt.Errorf("no settings file path given")
	}
	if m.ConfigExists() {
		return fmt.Errorf("settings file already exists at %s", m.configPath)
	}

	if err := m.v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// List returns all effective settings as a map. It fails like Load when the
// settings file is unreadable or invalid.
func (m *ViperManager) List() (map[string]interface{}, error) {
	if _, err := m.Load(); err != nil {
		return nil, err
	}
	return m.v.AllSettings(), nil
}

// ConfigExists checks if the settings file exists.
func (m *ViperManager) ConfigExists() bool {
	if m.configPath == "" {
		return false
	}
	_, err := os.Stat(m.configPath)
	return err == nil
}

// Ensure ViperManager implements Manager
var _ Manager = (*ViperManager)(nil)
