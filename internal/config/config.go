package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harrison/findfile/internal/finder"
	"github.com/harrison/findfile/internal/matcher"
)

// Snapshot store backends.
const (
	StoreYAML   = "yaml"
	StoreSQLite = "sqlite"
)

// CacheConfig represents disk cache configuration
type CacheConfig struct {
	// Store selects the snapshot backend (yaml, sqlite)
	Store string `yaml:"store"`

	// DBPath is the SQLite database path; empty means $FINDFILE_HOME/cache/snapshots.db
	DBPath string `yaml:"db_path"`

	// MaxDepth is the traversal depth of snapshots
	MaxDepth int `yaml:"max_depth"`

	// LockTimeout bounds the wait for a concurrent snapshot writer
	LockTimeout time.Duration `yaml:"lock_timeout"`
}

// Config represents findfile configuration options
type Config struct {
	// MaxDepth is the default search depth (-1 = unbounded)
	MaxDepth int `yaml:"max_depth"`

	// Workers is the number of directories listed concurrently (0 or 1 = sequential)
	Workers int `yaml:"workers"`

	// ExcludeMode combines exclude keys with OR (any) or AND (all)
	ExcludeMode string `yaml:"exclude_mode"`

	// UseRegex treats keys as regular expressions by default
	UseRegex bool `yaml:"use_regex"`

	// Ignore lists the names excluded from every search. A configured list
	// replaces the defaults; snapshot files are skipped by the cache either way.
	Ignore []string `yaml:"ignore"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir enables run logs in this directory when set
	LogDir string `yaml:"log_dir"`

	// Cache contains disk cache configuration
	Cache CacheConfig `yaml:"cache"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:    finder.DefaultMaxDepth,
		Workers:     1,
		ExcludeMode: matcher.ExcludeAny.String(),
		UseRegex:    false,
		Ignore:      finder.DefaultIgnoreList(),
		LogLevel:    "warn",
		LogDir:      "",
		Cache: CacheConfig{
			Store:       StoreYAML,
			DBPath:      "",
			MaxDepth:    30,
			LockTimeout: 5 * time.Second,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Pointers tell an explicit zero value from an absent key; depths accept
	// the same aliases as the --depth flag
	type yamlCache struct {
		Store       *string     `yaml:"store"`
		DBPath      *string     `yaml:"db_path"`
		MaxDepth    interface{} `yaml:"max_depth"`
		LockTimeout string      `yaml:"lock_timeout"`
	}
	type yamlConfig struct {
		MaxDepth    interface{} `yaml:"max_depth"`
		Workers     *int        `yaml:"workers"`
		ExcludeMode string      `yaml:"exclude_mode"`
		UseRegex    *bool       `yaml:"use_regex"`
		Ignore      *[]string   `yaml:"ignore"`
		LogLevel    string      `yaml:"log_level"`
		LogDir      *string     `yaml:"log_dir"`
		Cache       yamlCache   `yaml:"cache"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.MaxDepth != nil {
		depth, err := parseDepthValue(yamlCfg.MaxDepth)
		if err != nil {
			return nil, fmt.Errorf("invalid max_depth: %w", err)
		}
		cfg.MaxDepth = depth
	}
	if yamlCfg.Workers != nil {
		cfg.Workers = *yamlCfg.Workers
	}
	if yamlCfg.ExcludeMode != "" {
		cfg.ExcludeMode = yamlCfg.ExcludeMode
	}
	if yamlCfg.UseRegex != nil {
		cfg.UseRegex = *yamlCfg.UseRegex
	}
	if yamlCfg.Ignore != nil {
		// An explicit empty list disables the ignore list
		cfg.Ignore = append([]string{}, (*yamlCfg.Ignore)...)
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != nil {
		cfg.LogDir = *yamlCfg.LogDir
	}

	if yamlCfg.Cache.Store != nil {
		cfg.Cache.Store = *yamlCfg.Cache.Store
	}
	if yamlCfg.Cache.DBPath != nil {
		cfg.Cache.DBPath = *yamlCfg.Cache.DBPath
	}
	if yamlCfg.Cache.MaxDepth != nil {
		depth, err := parseDepthValue(yamlCfg.Cache.MaxDepth)
		if err != nil {
			return nil, fmt.Errorf("invalid cache.max_depth: %w", err)
		}
		cfg.Cache.MaxDepth = depth
	}
	if yamlCfg.Cache.LockTimeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Cache.LockTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid cache.lock_timeout format %q: %w", yamlCfg.Cache.LockTimeout, err)
		}
		cfg.Cache.LockTimeout = timeout
	}

	return cfg, nil
}

// parseDepthValue accepts an integer, a boolean alias or "unbounded".
func parseDepthValue(v interface{}) (int, error) {
	switch d := v.(type) {
	case int:
		if d == finder.Unbounded {
			return d, nil
		}
		return finder.ParseDepth(strconv.Itoa(d))
	case bool:
		return finder.DepthFromBool(d), nil
	case string:
		return finder.ParseDepth(d)
	default:
		return 0, fmt.Errorf("unsupported value %v", v)
	}
}

// LoadConfigFromDir loads configuration from .findfile/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".findfile", "config.yaml")
	return LoadConfig(configPath)
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(maxDepth *int, workers *int, excludeMode *string, useRegex *bool, logLevel *string) {
	if maxDepth != nil {
		c.MaxDepth = *maxDepth
	}
	if workers != nil {
		c.Workers = *workers
	}
	if excludeMode != nil {
		c.ExcludeMode = *excludeMode
	}
	if useRegex != nil {
		c.UseRegex = *useRegex
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.MaxDepth < finder.Unbounded {
		return fmt.Errorf("max_depth must be >= 0 or -1 (unbounded), got %d", c.MaxDepth)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}

	if _, err := matcher.ParseExcludeMode(c.ExcludeMode); err != nil {
		return fmt.Errorf("invalid exclude_mode: %w", err)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	switch c.Cache.Store {
	case StoreYAML, StoreSQLite:
	default:
		return fmt.Errorf("invalid cache.store %q, must be one of: %s, %s", c.Cache.Store, StoreYAML, StoreSQLite)
	}
	if c.Cache.MaxDepth < finder.Unbounded {
		return fmt.Errorf("cache.max_depth must be >= 0 or -1 (unbounded), got %d", c.Cache.MaxDepth)
	}
	if c.Cache.LockTimeout < 0 {
		return fmt.Errorf("cache.lock_timeout must be >= 0, got %v", c.Cache.LockTimeout)
	}

	return nil
}
