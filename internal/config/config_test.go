package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func assertEqual(t *testing.T, field string, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s = %v, want %v", field, got, want)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assertEqual(t, "MaxDepth", cfg.MaxDepth, 5)
	assertEqual(t, "Workers", cfg.Workers, 1)
	assertEqual(t, "ExcludeMode", cfg.ExcludeMode, "any")
	assertEqual(t, "UseRegex", cfg.UseRegex, false)
	assertEqual(t, "Ignore", cfg.Ignore, []string{".findfile_ignore", ".findfile_disk_cache"})
	assertEqual(t, "LogLevel", cfg.LogLevel, "warn")
	assertEqual(t, "Cache.Store", cfg.Cache.Store, StoreYAML)
	assertEqual(t, "Cache.MaxDepth", cfg.Cache.MaxDepth, 30)
	assertEqual(t, "Cache.LockTimeout", cfg.Cache.LockTimeout, 5*time.Second)

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

// TestLoadConfig_FullMatrixCoversAllFields ensures every field can be set from YAML
func TestLoadConfig_FullMatrixCoversAllFields(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "full-config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	assertEqual(t, "MaxDepth", cfg.MaxDepth, 9)
	assertEqual(t, "Workers", cfg.Workers, 4)
	assertEqual(t, "ExcludeMode", cfg.ExcludeMode, "all")
	assertEqual(t, "UseRegex", cfg.UseRegex, true)
	assertEqual(t, "Ignore", cfg.Ignore, []string{".findfile_ignore", "node_modules"})
	assertEqual(t, "LogLevel", cfg.LogLevel, "debug")
	assertEqual(t, "LogDir", cfg.LogDir, "/tmp/findfile/logs")

	t.Run("Cache", func(t *testing.T) {
		assertEqual(t, "Store", cfg.Cache.Store, StoreSQLite)
		assertEqual(t, "DBPath", cfg.Cache.DBPath, "/tmp/findfile/snapshots.db")
		assertEqual(t, "MaxDepth", cfg.Cache.MaxDepth, -1)
		assertEqual(t, "LockTimeout", cfg.Cache.LockTimeout, 750*time.Millisecond)
	})

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

// TestLoadConfigFileNotExists tests fallback to defaults when file doesn't exist
func TestLoadConfigFileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() should not error on missing file, got: %v", err)
	}
	assertEqual(t, "config", cfg, DefaultConfig())
}

// TestLoadConfigPartialFile tests that absent keys keep their defaults
func TestLoadConfigPartialFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "log_level: error\ncache:\n  store: sqlite\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	assertEqual(t, "LogLevel", cfg.LogLevel, "error")
	assertEqual(t, "Cache.Store", cfg.Cache.Store, StoreSQLite)
	assertEqual(t, "MaxDepth", cfg.MaxDepth, 5)
	assertEqual(t, "Cache.MaxDepth", cfg.Cache.MaxDepth, 30)
	assertEqual(t, "Ignore", cfg.Ignore, []string{".findfile_ignore", ".findfile_disk_cache"})
}

// TestLoadConfigExplicitZeroValues tests that zero values in YAML override defaults
func TestLoadConfigExplicitZeroValues(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "max_depth: 0\nworkers: 0\nignore: []\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	assertEqual(t, "MaxDepth", cfg.MaxDepth, 0)
	assertEqual(t, "Workers", cfg.Workers, 0)
	assertEqual(t, "Ignore", cfg.Ignore, []string{})
}

// TestLoadConfigDepthAliases tests boolean and keyword depth values
func TestLoadConfigDepthAliases(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{value: "true", want: 5},
		{value: "false", want: 0},
		{value: "unbounded", want: -1},
		{value: "-1", want: -1},
		{value: "12", want: 12},
		{value: `"7"`, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, "max_depth: "+tt.value+"\n"))
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			assertEqual(t, "MaxDepth", cfg.MaxDepth, tt.want)
		})
	}
}

// TestLoadConfigInvalid tests malformed files and values
func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "malformed yaml", content: "max_depth: [unclosed\n", wantErr: "failed to parse config file"},
		{name: "negative depth", content: "max_depth: -3\n", wantErr: "invalid max_depth"},
		{name: "word depth", content: "max_depth: deep\n", wantErr: "invalid max_depth"},
		{name: "cache depth", content: "cache:\n  max_depth: [1]\n", wantErr: "invalid cache.max_depth"},
		{name: "lock timeout", content: "cache:\n  lock_timeout: soon\n", wantErr: "invalid cache.lock_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("LoadConfig() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadConfig() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

// TestLoadConfigFromDir tests loading .findfile/config.yaml from a directory
func TestLoadConfigFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".findfile"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".findfile", "config.yaml"), []byte("workers: 8\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFromDir(dir)
	if err != nil {
		t.Fatalf("LoadConfigFromDir() error = %v", err)
	}
	assertEqual(t, "Workers", cfg.Workers, 8)

	cfg, err = LoadConfigFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfigFromDir() error = %v", err)
	}
	assertEqual(t, "Workers", cfg.Workers, 1)
}

// TestMergeWithFlags tests that non-nil flags override config values
func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()
	depth := -1
	mode := "all"
	regex := true

	cfg.MergeWithFlags(&depth, nil, &mode, &regex, nil)

	assertEqual(t, "MaxDepth", cfg.MaxDepth, -1)
	assertEqual(t, "Workers", cfg.Workers, 1)
	assertEqual(t, "ExcludeMode", cfg.ExcludeMode, "all")
	assertEqual(t, "UseRegex", cfg.UseRegex, true)
	assertEqual(t, "LogLevel", cfg.LogLevel, "warn")
}

// TestValidate tests rejection of invalid values
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "depth", mutate: func(c *Config) { c.MaxDepth = -2 }, wantErr: "max_depth"},
		{name: "workers", mutate: func(c *Config) { c.Workers = -1 }, wantErr: "workers"},
		{name: "exclude mode", mutate: func(c *Config) { c.ExcludeMode = "some" }, wantErr: "exclude_mode"},
		{name: "log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: "log_level"},
		{name: "store", mutate: func(c *Config) { c.Cache.Store = "redis" }, wantErr: "cache.store"},
		{name: "cache depth", mutate: func(c *Config) { c.Cache.MaxDepth = -5 }, wantErr: "cache.max_depth"},
		{name: "lock timeout", mutate: func(c *Config) { c.Cache.LockTimeout = -time.Second }, wantErr: "cache.lock_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}
