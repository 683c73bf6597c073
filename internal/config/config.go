package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Page store backends
const (
	StoreFS     = "fs"
	StoreSQLite = "sqlite"
)

// Config represents the creolewiki configuration
type Config struct {
	PagesDir        string              `json:"pages_dir"`
	OutputDir       string              `json:"output_dir"`
	Store           string              `json:"store"`
	Database        string              `json:"database,omitempty"`
	LogFile         string              `json:"log_file"`
	LogLevel        string              `json:"log_level,omitempty"`
	BaseURL         string              `json:"base_url"`
	WikiName        string              `json:"wiki_name,omitempty"`
	InterWiki       map[string]string   `json:"interwiki,omitempty"`
	HighlightStyle  string              `json:"highlight_style,omitempty"`
	SanitizeRawHTML bool                `json:"sanitize_raw_html,omitempty"`
	Directives      map[string][]string `json:"directives,omitempty"`
	Interval        time.Duration       `json:"-"` // Custom JSON handling below
}

// fileConfig is the on-disk form, with the interval as a duration string
type fileConfig struct {
	PagesDir        string              `json:"pages_dir"`
	OutputDir       string              `json:"output_dir"`
	Store           string              `json:"store"`
	Database        string              `json:"database,omitempty"`
	LogFile         string              `json:"log_file"`
	LogLevel        string              `json:"log_level,omitempty"`
	BaseURL         string              `json:"base_url"`
	WikiName        string              `json:"wiki_name,omitempty"`
	InterWiki       map[string]string   `json:"interwiki,omitempty"`
	HighlightStyle  string              `json:"highlight_style,omitempty"`
	SanitizeRawHTML bool                `json:"sanitize_raw_html,omitempty"`
	Directives      map[string][]string `json:"directives,omitempty"`
	Interval        string              `json:"interval"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		PagesDir:       filepath.Join(home, "wiki", "pages"),
		OutputDir:      filepath.Join(home, "wiki", "public"),
		Store:          StoreFS,
		Database:       filepath.Join(xdg.DataHome, "creolewiki", "wiki.db"),
		LogFile:        "/tmp/creolewiki.log",
		LogLevel:       "info",
		BaseURL:        "/",
		HighlightStyle: "monokai",
		InterWiki:      map[string]string{},
		Directives:     map[string][]string{},
		Interval:       30 * time.Second,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "creolewiki", "config.json")
	}
	return filepath.Join(home, ".config", "creolewiki", "config.json")
}

// StateFilePath returns the path to the publish state file
// Uses platform-specific XDG data directory
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.DataHome, "creolewiki", "state.json")
}

// Load reads configuration from the XDG config directory
func Load() (*Config, error) {
	configPath := ConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Unset fields keep their defaults
	defaults := DefaultConfig()
	raw := fileConfig{
		Store:          defaults.Store,
		Database:       defaults.Database,
		LogLevel:       defaults.LogLevel,
		BaseURL:        defaults.BaseURL,
		HighlightStyle: defaults.HighlightStyle,
		Interval:       defaults.Interval.String(),
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Parse interval duration
	interval, err := time.ParseDuration(raw.Interval)
	if err != nil {
		return nil, fmt.Errorf("invalid interval format '%s': %w", raw.Interval, err)
	}

	cfg := &Config{
		PagesDir:        raw.PagesDir,
		OutputDir:       raw.OutputDir,
		Store:           raw.Store,
		Database:        raw.Database,
		LogFile:         raw.LogFile,
		LogLevel:        raw.LogLevel,
		BaseURL:         raw.BaseURL,
		WikiName:        raw.WikiName,
		InterWiki:       raw.InterWiki,
		HighlightStyle:  raw.HighlightStyle,
		SanitizeRawHTML: raw.SanitizeRawHTML,
		Directives:      raw.Directives,
		Interval:        interval,
	}
	if cfg.InterWiki == nil {
		cfg.InterWiki = map[string]string{}
	}
	if cfg.Directives == nil {
		cfg.Directives = map[string][]string{}
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Expand paths
	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the XDG config directory
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw := fileConfig{
		PagesDir:        c.PagesDir,
		OutputDir:       c.OutputDir,
		Store:           c.Store,
		Database:        c.Database,
		LogFile:         c.LogFile,
		LogLevel:        c.LogLevel,
		BaseURL:         c.BaseURL,
		WikiName:        c.WikiName,
		InterWiki:       c.InterWiki,
		HighlightStyle:  c.HighlightStyle,
		SanitizeRawHTML: c.SanitizeRawHTML,
		Directives:      c.Directives,
		Interval:        c.Interval.String(),
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.PagesDir == "" {
		return fmt.Errorf("pages_dir cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	switch c.Store {
	case StoreFS:
	case StoreSQLite:
		if c.Database == "" {
			return fmt.Errorf("database cannot be empty when store is %s", StoreSQLite)
		}
	default:
		return fmt.Errorf("invalid store '%s': must be one of: %s, %s", c.Store, StoreFS, StoreSQLite)
	}

	validLevels := map[string]bool{
		"":      true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.PagesDir, err = expandPath(c.PagesDir)
	if err != nil {
		return fmt.Errorf("failed to expand pages_dir: %w", err)
	}

	c.OutputDir, err = expandPath(c.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to expand output_dir: %w", err)
	}

	c.Database, err = expandPath(c.Database)
	if err != nil {
		return fmt.Errorf("failed to expand database: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
