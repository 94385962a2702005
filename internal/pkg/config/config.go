// Package config provides settings management for bumpdecider.
package config

import "time"

// Config represents the complete bumpdecider settings.
type Config struct {
	BumpTool BumpToolConfig `mapstructure:"bump_tool"`
	Git      GitConfig      `mapstructure:"git"`
	UI       UIConfig       `mapstructure:"ui"`
	History  HistoryConfig  `mapstructure:"history"`
}

// BumpToolConfig contains settings for the external bump tool.
type BumpToolConfig struct {
	Command        string   `mapstructure:"command"`
	Install        bool     `mapstructure:"install"`
	InstallCommand []string `mapstructure:"install_command"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
}

// Timeout returns the bump tool timeout as a duration.
func (c BumpToolConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GitConfig contains Git-related settings.
type GitConfig struct {
	Command            string `mapstructure:"command"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds"`
	PushTimeoutSeconds int    `mapstructure:"push_timeout_seconds"`
}

// Timeout returns the timeout for local git commands.
func (c GitConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PushTimeout returns the timeout for git push.
func (c GitConfig) PushTimeout() time.Duration {
	return time.Duration(c.PushTimeoutSeconds) * time.Second
}

// UIConfig contains output-related settings.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
}

// HistoryConfig contains run history settings.
type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	MaxEntries int    `mapstructure:"max_entries"`
	FilePath   string `mapstructure:"file_path"`
}

// Manager defines the interface for settings management.
type Manager interface {
	Load() (*Config, error)
	Init() error
	List() (map[string]interface{}, error)
	GetConfigPath() string
}
