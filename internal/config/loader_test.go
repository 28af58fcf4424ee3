package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingPathYieldsDefaults(t *testing.T) {
	t.Setenv("JOBSH_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "jobsh> ", cfg.Shell.Prompt)
	assert.Equal(t, 16, cfg.Shell.MaxJobs)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.HistoryEnabled())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
shell:
  prompt: "% "
  max_jobs: 4
log:
  level: debug
  format: text
history:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "% ", cfg.Shell.Prompt)
	assert.Equal(t, 4, cfg.Shell.MaxJobs)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.HistoryEnabled())

	// Paths not set in the file fall back under state.dir.
	assert.NotEmpty(t, cfg.History.Path)
	assert.NotEmpty(t, cfg.Log.Path)
}

func TestLoadEnvInterpolation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOBSH_TEST_STATE", dir)

	path := filepath.Join(dir, "config.yaml")
	data := "state:\n  dir: ${JOBSH_TEST_STATE}/state\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "state"), cfg.State.Dir)
	assert.Equal(t, filepath.Join(dir, "state", "history.db"), cfg.History.Path)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad log level", "log:\n  level: loud\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"negative max jobs", "shell:\n  max_jobs: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
