// Package config defines the settings the CLI collaborator loads from a
// `.wflcfg` file and injects into the core (spec §6: "the core exposes
// these as injected settings"). The core itself never reads this file; it
// only consumes the Settings struct this package produces.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
)

// Settings is the full set of runtime parameters a `.wflcfg` file can
// override (SPEC_FULL.md AMBIENT STACK: "ExecutionTimeout time.Duration,
// PatternStepLimit int, LogLevel string").
type Settings struct {
	ExecutionTimeout time.Duration `yaml:"execution_timeout"`
	PatternStepLimit int           `yaml:"pattern_step_limit"`
	LogLevel         string        `yaml:"log_level"`
}

// Default returns the settings the interpreter uses when no `.wflcfg` is
// present.
func Default() Settings {
	return Settings{
		ExecutionTimeout: 60 * time.Second,
		PatternStepLimit: 100000,
		LogLevel:         "info",
	}
}

// rawSettings mirrors Settings but with a plain string for the timeout so
// both the YAML and JSON decoders can parse "60s"-style duration text
// before it is converted to a time.Duration.
type rawSettings struct {
	ExecutionTimeout string `yaml:"execution_timeout" json:"execution_timeout"`
	PatternStepLimit int    `yaml:"pattern_step_limit" json:"pattern_step_limit"`
	LogLevel         string `yaml:"log_level" json:"log_level"`
}

// Load parses a `.wflcfg` file's contents as either YAML or JSON,
// selecting the decoder by sniffing the first non-whitespace byte: `{`
// means JSON (decoded with tidwall/gjson, since SPEC_FULL.md already uses
// the gjson/sjson/pretty family for internal/errors' JSON diagnostics
// exporter and this keeps config parsing on the same family rather than
// introducing encoding/json), anything else is handed to goccy/go-yaml.
// Unset fields in the source text keep Default()'s value.
func Load(text string) (Settings, error) {
	settings := Default()
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return settings, nil
	}

	var raw rawSettings
	raw.ExecutionTimeout = settings.ExecutionTimeout.String()
	raw.PatternStepLimit = settings.PatternStepLimit
	raw.LogLevel = settings.LogLevel

	if strings.HasPrefix(trimmed, "{") {
		if !gjson.Valid(trimmed) {
			return settings, fmt.Errorf("config: invalid JSON")
		}
		result := gjson.Parse(trimmed)
		if v := result.Get("execution_timeout"); v.Exists() {
			raw.ExecutionTimeout = v.String()
		}
		if v := result.Get("pattern_step_limit"); v.Exists() {
			raw.PatternStepLimit = int(v.Int())
		}
		if v := result.Get("log_level"); v.Exists() {
			raw.LogLevel = v.String()
		}
	} else {
		if err := yaml.Unmarshal([]byte(trimmed), &raw); err != nil {
			return settings, fmt.Errorf("config: invalid YAML: %w", err)
		}
	}

	dur, err := time.ParseDuration(raw.ExecutionTimeout)
	if err != nil {
		return settings, fmt.Errorf("config: invalid execution_timeout %q: %w", raw.ExecutionTimeout, err)
	}
	settings.ExecutionTimeout = dur
	settings.PatternStepLimit = raw.PatternStepLimit
	settings.LogLevel = raw.LogLevel
	return settings, nil
}
