// Package config loads and validates the pipeline configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all pipeline settings. JSON file values override defaults,
// and ARTIFIX_* environment variables override both.
type Config struct {
	// Enabled gates the whole pipeline. When false every artifact passes
	// through untouched.
	Enabled bool `json:"enabled"`
	// MaxRetries is the total number of validation passes per artifact,
	// including the first.
	MaxRetries int `json:"max_retries"`
	// ValidationTimeoutSecs bounds a full validation pass.
	ValidationTimeoutSecs int `json:"validation_timeout_secs"`
	// CompilationTimeoutSecs bounds a single compilation.
	CompilationTimeoutSecs int `json:"compilation_timeout_secs"`
	// EligibleTypes lists the artifact content types the pipeline validates.
	EligibleTypes []string `json:"eligible_types"`
	// StreamingEnabled turns on progress event emission.
	StreamingEnabled bool `json:"streaming_enabled"`
	// StreamingDetailed includes per-attempt compilation events, not just
	// artifact-level outcomes.
	StreamingDetailed bool `json:"streaming_detailed"`
	// StreamDelayMs inserts an artificial delay between streamed events,
	// mainly for demo UIs.
	StreamDelayMs int `json:"stream_delay_ms"`
	// RepairModel is the model name passed to the repair channel.
	RepairModel string `json:"repair_model"`
	// OllamaServerURL overrides the Ollama server address. Empty uses
	// OLLAMA_HOST or the Ollama default.
	OllamaServerURL string `json:"ollama_server_url"`
	// LogFile is the rotating log file path. Empty disables file logging.
	LogFile string `json:"log_file"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Enabled:                true,
		MaxRetries:             3,
		ValidationTimeoutSecs:  30,
		CompilationTimeoutSecs: 10,
		EligibleTypes: []string{
			"application/vnd.component.react",
			"text/tsx",
		},
		StreamingEnabled:  true,
		StreamingDetailed: true,
		StreamDelayMs:     0,
		RepairModel:       "qwen2.5-coder:7b",
		OllamaServerURL:   "",
		LogFile:           ".artifix/pipeline.log",
	}
}

// Load builds a configuration: defaults, then the JSON file at path (when
// non-empty), then a .env file in the working directory if present, then
// ARTIFIX_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("could not read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("could not parse config file %s: %w", path, err)
		}
	}

	// Best effort; a missing .env is not an error.
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1, got %d", c.MaxRetries)
	}
	if c.ValidationTimeoutSecs < 1 {
		return fmt.Errorf("validation_timeout_secs must be at least 1, got %d", c.ValidationTimeoutSecs)
	}
	if c.CompilationTimeoutSecs < 1 {
		return fmt.Errorf("compilation_timeout_secs must be at least 1, got %d", c.CompilationTimeoutSecs)
	}
	if len(c.EligibleTypes) == 0 {
		return fmt.Errorf("eligible_types must not be empty")
	}
	if c.StreamDelayMs < 0 {
		return fmt.Errorf("stream_delay_ms must not be negative, got %d", c.StreamDelayMs)
	}
	return nil
}

// Eligible reports whether the given artifact content type is validated.
func (c Config) Eligible(contentType string) bool {
	for _, t := range c.EligibleTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := envBool("ARTIFIX_ENABLED"); ok {
		cfg.Enabled = v
	}
	if v, ok := envInt("ARTIFIX_MAX_RETRIES"); ok {
		cfg.MaxRetries = v
	}
	if v, ok := envInt("ARTIFIX_VALIDATION_TIMEOUT_SECS"); ok {
		cfg.ValidationTimeoutSecs = v
	}
	if v, ok := envInt("ARTIFIX_COMPILATION_TIMEOUT_SECS"); ok {
		cfg.CompilationTimeoutSecs = v
	}
	if v := os.Getenv("ARTIFIX_ELIGIBLE_TYPES"); v != "" {
		var eligible []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				eligible = append(eligible, t)
			}
		}
		if len(eligible) > 0 {
			cfg.EligibleTypes = eligible
		}
	}
	if v, ok := envBool("ARTIFIX_STREAMING_ENABLED"); ok {
		cfg.StreamingEnabled = v
	}
	if v, ok := envBool("ARTIFIX_STREAMING_DETAILED"); ok {
		cfg.StreamingDetailed = v
	}
	if v, ok := envInt("ARTIFIX_STREAM_DELAY_MS"); ok {
		cfg.StreamDelayMs = v
	}
	if v := os.Getenv("ARTIFIX_REPAIR_MODEL"); v != "" {
		cfg.RepairModel = v
	}
	if v := os.Getenv("ARTIFIX_OLLAMA_SERVER_URL"); v != "" {
		cfg.OllamaServerURL = v
	}
	if v := os.Getenv("ARTIFIX_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return parsed, true
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
