package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.PagesDir == "" {
		t.Error("Expected PagesDir to be set")
	}
	if cfg.OutputDir == "" {
		t.Error("Expected OutputDir to be set")
	}
	if cfg.LogFile == "" {
		t.Error("Expected LogFile to be set")
	}
	if cfg.Store != StoreFS {
		t.Errorf("Expected store %q, got %q", StoreFS, cfg.Store)
	}
	if cfg.Interval != 30*time.Second {
		t.Errorf("Expected Interval to be 30s, got %v", cfg.Interval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			PagesDir:  "/path/to/pages",
			OutputDir: "/path/to/public",
			Store:     StoreFS,
			LogFile:   "/tmp/test.log",
			Interval:  30 * time.Second,
		}
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty pages_dir",
			modify:  func(c *Config) { c.PagesDir = "" },
			wantErr: true,
		},
		{
			name:    "empty output_dir",
			modify:  func(c *Config) { c.OutputDir = "" },
			wantErr: true,
		},
		{
			name:    "zero interval",
			modify:  func(c *Config) { c.Interval = 0 },
			wantErr: true,
		},
		{
			name:    "negative interval",
			modify:  func(c *Config) { c.Interval = -5 * time.Second },
			wantErr: true,
		},
		{
			name:    "unknown store",
			modify:  func(c *Config) { c.Store = "postgres" },
			wantErr: true,
		},
		{
			name:    "sqlite without database",
			modify:  func(c *Config) { c.Store = StoreSQLite },
			wantErr: true,
		},
		{
			name: "sqlite with database",
			modify: func(c *Config) {
				c.Store = StoreSQLite
				c.Database = "/tmp/wiki.db"
			},
			wantErr: false,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.LogLevel = "chatty" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func overrideConfigPath(t *testing.T, path string) {
	t.Helper()
	original := ConfigPath
	ConfigPath = func() string {
		return path
	}
	t.Cleanup(func() {
		ConfigPath = original
	})
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	testConfigPath := filepath.Join(tmpDir, "config.json")
	overrideConfigPath(t, testConfigPath)

	testCfg := &Config{
		PagesDir:        "/test/pages",
		OutputDir:       "/test/public",
		Store:           StoreFS,
		LogFile:         "/tmp/creolewiki-test.log",
		LogLevel:        "debug",
		BaseURL:         "http://wiki.example.com",
		WikiName:        "main",
		InterWiki:       map[string]string{"c2": "http://c2.com/cgi/wiki?%s"},
		HighlightStyle:  "github",
		SanitizeRawHTML: true,
		Directives:      map[string][]string{"table-alignment": {"middle"}},
		Interval:        45 * time.Second,
	}

	if err := testCfg.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(testConfigPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedCfg.Interval != testCfg.Interval {
		t.Errorf("Interval mismatch: got %v, want %v", loadedCfg.Interval, testCfg.Interval)
	}
	if loadedCfg.BaseURL != testCfg.BaseURL {
		t.Errorf("BaseURL mismatch: got %q, want %q", loadedCfg.BaseURL, testCfg.BaseURL)
	}
	if loadedCfg.InterWiki["c2"] != "http://c2.com/cgi/wiki?%s" {
		t.Errorf("InterWiki not loaded: %v", loadedCfg.InterWiki)
	}
	if got := loadedCfg.Directives["table-alignment"]; len(got) != 1 || got[0] != "middle" {
		t.Errorf("Directives not loaded: %v", loadedCfg.Directives)
	}
	if !loadedCfg.SanitizeRawHTML {
		t.Error("SanitizeRawHTML should be true")
	}
	if loadedCfg.LogFile == "" {
		t.Error("LogFile should not be empty")
	}
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	tmpDir := t.TempDir()
	testConfigPath := filepath.Join(tmpDir, "config.json")
	overrideConfigPath(t, testConfigPath)

	content := `{"pages_dir": "/p", "output_dir": "/o", "log_file": "/tmp/l.log"}`
	if err := os.WriteFile(testConfigPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store != StoreFS {
		t.Errorf("Expected default store, got %q", cfg.Store)
	}
	if cfg.Interval != 30*time.Second {
		t.Errorf("Expected default interval, got %v", cfg.Interval)
	}
	if cfg.HighlightStyle != "monokai" {
		t.Errorf("Expected default highlight style, got %q", cfg.HighlightStyle)
	}
	if cfg.InterWiki == nil || cfg.Directives == nil {
		t.Error("Expected empty maps, got nil")
	}
}

func TestLoadInvalidInterval(t *testing.T) {
	tmpDir := t.TempDir()
	testConfigPath := filepath.Join(tmpDir, "config.json")
	overrideConfigPath(t, testConfigPath)

	content := `{"pages_dir": "/p", "output_dir": "/o", "log_file": "/tmp/l.log", "interval": "soon"}`
	if err := os.WriteFile(testConfigPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid interval")
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	tmpDir := t.TempDir()
	overrideConfigPath(t, filepath.Join(tmpDir, "nonexistent.json"))

	// Load should return default config when file doesn't exist
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}

	if cfg.Interval != 30*time.Second {
		t.Errorf("Expected default interval 30s, got %v", cfg.Interval)
	}
}

func TestExpandPath(t *testing.T) {
	homeDir, _ := os.UserHomeDir()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "tilde expansion",
			input: "~/test",
			want:  filepath.Join(homeDir, "test"),
		},
		{
			name:  "tilde only",
			input: "~",
			want:  homeDir,
		},
		{
			name:  "absolute path",
			input: "/tmp/test",
			want:  "/tmp/test",
		},
		{
			name:  "empty path",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := expandPath(tt.input)
			if err != nil {
				t.Fatalf("expandPath() error = %v", err)
			}
			if result != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.want)
			}
		})
	}
}

func TestConfigPathsExpanded(t *testing.T) {
	tmpDir := t.TempDir()
	overrideConfigPath(t, filepath.Join(tmpDir, "config.json"))

	testCfg := &Config{
		PagesDir:  "~/wiki/pages",
		OutputDir: "~/wiki/public",
		Store:     StoreSQLite,
		Database:  "~/wiki/wiki.db",
		LogFile:   "~/creolewiki.log",
		Interval:  30 * time.Second,
	}

	if err := testCfg.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	for name, path := range map[string]string{
		"PagesDir":  loadedCfg.PagesDir,
		"OutputDir": loadedCfg.OutputDir,
		"Database":  loadedCfg.Database,
		"LogFile":   loadedCfg.LogFile,
	} {
		if path[0] == '~' {
			t.Errorf("%s was not expanded", name)
		}
	}
}
