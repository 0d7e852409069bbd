// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package config loads proclist settings from a YAML file and PROCLIST_*
// environment variables. Command-line flags are applied on top by the CLI.
//
// Precedence, lowest first: built-in defaults, config file, environment.
//
// Example config.yaml:
//
//	output: table
//	workers: 8
//	skipErrors: true
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for settings that fail validation.
var ErrInvalidConfig = errors.New("invalid config")

// Environment variable names.
const (
	EnvOutput         = "PROCLIST_OUTPUT"
	EnvWorkers        = "PROCLIST_WORKERS"
	EnvSkipErrors     = "PROCLIST_SKIP_ERRORS"
	EnvUnsorted       = "PROCLIST_UNSORTED"
	EnvMetricsFile    = "PROCLIST_METRICS_FILE"
	EnvPause          = "PROCLIST_PAUSE"
	EnvDebug          = "PROCLIST_DEBUG"
	EnvStructuredLogs = "PROCLIST_STRUCTURED_LOGS"
	EnvLogLevel       = "PROCLIST_LOG_LEVEL"
)

// Config holds the settings for one proclist run.
type Config struct {
	// Output is one of default, table or json.
	Output string `yaml:"output"`
	// Workers bounds the number of concurrent name lookups.
	Workers int `yaml:"workers"`
	// SkipErrors drops processes whose path cannot be read.
	SkipErrors bool `yaml:"skipErrors"`
	// Unsorted keeps the OS enumeration order instead of sorting by PID.
	Unsorted bool `yaml:"unsorted"`
	// MetricsFile, when set, receives a Prometheus textfile for the snapshot.
	MetricsFile string `yaml:"metricsFile"`
	// Pause waits for a key press before exiting.
	Pause          bool `yaml:"pause"`
	Debug          bool `yaml:"debug"`
	StructuredLogs bool `yaml:"structuredLogs"`
	// LogLevel is one of debug, info, warn or error. Debug takes precedence.
	LogLevel string `yaml:"logLevel"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Output:  "default",
		Workers: runtime.NumCPU(),
	}
}

// DefaultPath returns the per-user config file location, or "" when no
// config directory is available.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "proclist", "config.yaml")
}

// Load reads the config file at path and applies environment overrides.
// An empty path means DefaultPath, which may be absent; an explicit path
// must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		// #nosec G304 -- config path comes from the user running the tool
		data, err := os.ReadFile(filepath.Clean(path))
		switch {
		case err == nil:
			if err := cfg.decode(data); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode overlays YAML settings on cfg. Unknown keys are rejected.
func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides settings from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvOutput); ok && v != "" {
		c.Output = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvMetricsFile); ok && v != "" {
		c.MetricsFile = v
	}
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvWorkers, v)
		}
		c.Workers = n
	}

	bools := []struct {
		name   string
		target *bool
	}{
		{EnvSkipErrors, &c.SkipErrors},
		{EnvUnsorted, &c.Unsorted},
		{EnvPause, &c.Pause},
		{EnvDebug, &c.Debug},
		{EnvStructuredLogs, &c.StructuredLogs},
	}
	for _, b := range bools {
		v, ok := lookup(b.name)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, b.name, v)
		}
		*b.target = parsed
	}
	return nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	switch c.Output {
	case "default", "table", "json":
	default:
		return fmt.Errorf("%w: output %q (valid options: default, table, json)", ErrInvalidConfig, c.Output)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: logLevel %q (valid options: debug, info, warn, error)", ErrInvalidConfig, c.LogLevel)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}
