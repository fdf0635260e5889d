package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 30, cfg.ValidationTimeoutSecs)
	assert.Equal(t, 10, cfg.CompilationTimeoutSecs)
	assert.Contains(t, cfg.EligibleTypes, "application/vnd.component.react")
	assert.Contains(t, cfg.EligibleTypes, "text/tsx")
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"max_retries": 5,
		"streaming_enabled": false,
		"repair_model": "llama3.1:8b"
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.False(t, cfg.StreamingEnabled)
	assert.Equal(t, "llama3.1:8b", cfg.RepairModel)
	// Untouched fields keep their defaults.
	assert.Equal(t, 30, cfg.ValidationTimeoutSecs)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ARTIFIX_MAX_RETRIES", "7")
	t.Setenv("ARTIFIX_ENABLED", "false")
	t.Setenv("ARTIFIX_ELIGIBLE_TYPES", "text/tsx, application/x-custom")
	t.Setenv("ARTIFIX_REPAIR_MODEL", "codellama:13b")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxRetries)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, []string{"text/tsx", "application/x-custom"}, cfg.EligibleTypes)
	assert.Equal(t, "codellama:13b", cfg.RepairModel)
}

func TestEnvOverridesIgnoreUnparseable(t *testing.T) {
	t.Setenv("ARTIFIX_MAX_RETRIES", "lots")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }},
		{"negative validation timeout", func(c *Config) { c.ValidationTimeoutSecs = -1 }},
		{"zero compilation timeout", func(c *Config) { c.CompilationTimeoutSecs = 0 }},
		{"no eligible types", func(c *Config) { c.EligibleTypes = nil }},
		{"negative stream delay", func(c *Config) { c.StreamDelayMs = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEligible(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Eligible("application/vnd.component.react"))
	assert.True(t, cfg.Eligible("text/tsx"))
	assert.True(t, cfg.Eligible("TEXT/TSX"), "content type matching is case-insensitive")
	assert.False(t, cfg.Eligible("text/markdown"))
	assert.False(t, cfg.Eligible(""))
}
