package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads and parses configuration from a file. An empty path triggers
// discovery; a discovered-but-missing config is not an error and yields the
// defaults, since jobsh must come up with no rc file at all.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		discovered, err := DiscoverConfigPath()
		if err != nil {
			return applyDefaults(&Config{}), nil
		}
		configPath = discovered
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %q: %w", configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", absPath, err)
	}

	// Apply environment variable interpolation before parsing.
	interpolated := interpolateEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(interpolated), &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML in %s: %w", absPath, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// DiscoverConfigPath finds the config file by checking standard locations.
// Priority order: $JOBSH_CONFIG, ~/.config/jobsh/config.yaml, ./jobsh.yaml.
func DiscoverConfigPath() (string, error) {
	if path := os.Getenv("JOBSH_CONFIG"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		userConfig := filepath.Join(homeDir, ".config", "jobsh", "config.yaml")
		if _, err := os.Stat(userConfig); err == nil {
			return userConfig, nil
		}
	}

	legacyConfig := "./jobsh.yaml"
	if _, err := os.Stat(legacyConfig); err == nil {
		return legacyConfig, nil
	}

	return "", errors.New("no config found (checked: $JOBSH_CONFIG, ~/.config/jobsh/config.yaml, ./jobsh.yaml)")
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	stateDir := defaultStateDir()
	return &Config{
		Shell: ShellConfig{
			Prompt:  "jobsh> ",
			MaxJobs: 16,
		},
		State: StateConfig{
			Dir: stateDir,
		},
		History: HistoryConfig{
			Path: filepath.Join(stateDir, "history.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Path:   filepath.Join(stateDir, "jobsh.log"),
		},
	}
}

func defaultStateDir() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state", "jobsh")
	}
	return filepath.Join(os.TempDir(), "jobsh")
}

// applyDefaults merges default values into cfg where not explicitly set.
func applyDefaults(cfg *Config) *Config {
	defaults := Defaults()

	if cfg.Shell.Prompt == "" {
		cfg.Shell.Prompt = defaults.Shell.Prompt
	}
	if cfg.Shell.MaxJobs == 0 {
		cfg.Shell.MaxJobs = defaults.Shell.MaxJobs
	}
	if cfg.State.Dir == "" {
		cfg.State.Dir = defaults.State.Dir
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(cfg.State.Dir, "history.db")
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}
	if cfg.Log.Path == "" {
		cfg.Log.Path = filepath.Join(cfg.State.Dir, "jobsh.log")
	}

	return cfg
}

// interpolateEnv replaces ${VAR} with environment variable values.
// Undefined variables are left as-is.
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return match
	})
}

// validate performs basic validation on the configuration.
func validate(cfg *Config) error {
	if cfg.Shell.MaxJobs < 1 {
		return fmt.Errorf("shell.max_jobs must be positive (got %d)", cfg.Shell.MaxJobs)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Log.Level] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error (got %q)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[cfg.Log.Format] {
		return fmt.Errorf("log.format must be one of: json, text (got %q)", cfg.Log.Format)
	}

	if cfg.HistoryEnabled() && cfg.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}

	return nil
}
