// Package config handles configuration persistence for docwrangler.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Persisted keys for the API connection. They match the keys the web frontend kept in
// local storage so a config can be carried over by hand.
const (
	KeyAPIURL = "docwrangler_api_url"
	KeyAPIKey = "docwrangler_api_key"
)

// Environment variables that override the persisted API connection.
const (
	EnvHome   = "DOCWRANGLER_HOME"
	EnvAPIURL = "DOCWRANGLER_API_URL"
	EnvAPIKey = "DOCWRANGLER_API_KEY"
)

const configFileName = "config.json"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style" mapstructure:"style"`                         // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji" mapstructure:"enable_emoji"`           // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines" mapstructure:"preserve_newlines"` // Preserve original line breaks
}

// Config represents the user configuration
type Config struct {
	APIURL string `json:"docwrangler_api_url" mapstructure:"docwrangler_api_url"`
	APIKey string `json:"docwrangler_api_key" mapstructure:"docwrangler_api_key"`

	// Verbose lowers the log level to debug and prints request timing in one-shot mode.
	Verbose         bool   `json:"verbose" mapstructure:"verbose"`
	CopyToClipboard bool   `json:"copy_to_clipboard" mapstructure:"copy_to_clipboard"`
	TUITheme        string `json:"tui_theme,omitempty" mapstructure:"tui_theme"`
	LogLevel        string `json:"log_level,omitempty" mapstructure:"log_level"`

	// RequestTimeoutSeconds bounds each API call. Zero means no timeout.
	RequestTimeoutSeconds int `json:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`
	// CircuitBreaker makes the client fail fast while the service keeps failing.
	CircuitBreaker bool `json:"circuit_breaker" mapstructure:"circuit_breaker"`
	// MaxRequestsPerMinute paces outgoing calls. Zero means unlimited.
	MaxRequestsPerMinute int `json:"max_requests_per_minute" mapstructure:"max_requests_per_minute"`

	Markdown MarkdownConfig `json:"markdown" mapstructure:"markdown"`
}

// API returns the connection part of the configuration.
func (c Config) API() APIConfig {
	return APIConfig{BaseURL: c.APIURL, APIKey: c.APIKey}
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		LogLevel:        "info",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".docwrangler"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the config file holds the API key
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName), nil
}

// GetLogPath returns the path to the log file
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "docwrangler.log"), nil
}

// LoadConfig loads the configuration from disk, applying environment overrides
// for the API connection.
func LoadConfig() (Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return loadFrom(path, true)
}

// LoadFileConfig loads the configuration exactly as persisted, ignoring environment
// overrides. Used before rewriting the file so overrides never leak into it.
func LoadFileConfig() (Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return loadFrom(path, false)
}

func loadFrom(path string, withEnv bool) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigFile(path)
	v.SetConfigType("json")

	if withEnv {
		_ = v.BindEnv(KeyAPIURL, EnvAPIURL)
		_ = v.BindEnv(KeyAPIKey, EnvAPIKey)
	}

	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault(KeyAPIURL, cfg.APIURL)
	v.SetDefault(KeyAPIKey, cfg.APIKey)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("copy_to_clipboard", cfg.CopyToClipboard)
	v.SetDefault("tui_theme", cfg.TUITheme)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("request_timeout_seconds", cfg.RequestTimeoutSeconds)
	v.SetDefault("circuit_breaker", cfg.CircuitBreaker)
	v.SetDefault("max_requests_per_minute", cfg.MaxRequestsPerMinute)
	v.SetDefault("markdown.style", cfg.Markdown.Style)
	v.SetDefault("markdown.enable_emoji", cfg.Markdown.EnableEmoji)
	v.SetDefault("markdown.preserve_newlines", cfg.Markdown.PreserveNewLines)
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, configFileName)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0o600: the API key is stored in plain text
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LogLevels returns the accepted log level names
func LogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}
