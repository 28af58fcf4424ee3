package config

// Config represents the complete jobsh configuration.
type Config struct {
	Shell   ShellConfig   `yaml:"shell"`
	State   StateConfig   `yaml:"state"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

// ShellConfig defines interactive behavior.
type ShellConfig struct {
	Prompt      string `yaml:"prompt"`
	PromptColor string `yaml:"prompt_color,omitempty"` // lipgloss color, e.g. "6" or "#5f87af"
	MaxJobs     int    `yaml:"max_jobs"`
}

// StateConfig defines where mutable state (history db, log file) lives.
type StateConfig struct {
	Dir string `yaml:"dir"`
}

// HistoryConfig defines command history settings.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path"`
}

// HistoryEnabled reports whether history recording is on (default true).
func (c *Config) HistoryEnabled() bool {
	if c.History.Enabled == nil {
		return true
	}
	return *c.History.Enabled
}

// LogConfig defines diagnostic logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}
