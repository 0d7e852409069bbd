// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir at an empty temp dir and clears
// PROCLIST_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)
	for _, name := range []string{EnvOutput, EnvWorkers, EnvSkipErrors, EnvUnsorted, EnvMetricsFile, EnvPause, EnvDebug, EnvStructuredLogs} {
		t.Setenv(name, "")
	}
	return dir
}

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "default", cfg.Output)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, `
output: table
workers: 3
skipErrors: true
metricsFile: /var/lib/node_exporter/proclist.prom
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.SkipErrors)
	assert.False(t, cfg.Unsorted)
	assert.Equal(t, "/var/lib/node_exporter/proclist.prom", cfg.MetricsFile)
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDefaultPath(t *testing.T) {
	isolate(t)
	path := DefaultPath()
	require.NotEmpty(t, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte("output: json\n"), 0600))

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "outptu: json\n")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "output: table\nworkers: 2\n")
	t.Setenv(EnvOutput, "JSON")
	t.Setenv(EnvWorkers, "16")
	t.Setenv(EnvUnsorted, "true")
	t.Setenv(EnvPause, "1")
	t.Setenv(EnvLogLevel, " Warn ")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, 16, cfg.Workers)
	assert.True(t, cfg.Unsorted)
	assert.True(t, cfg.Pause)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestApplyEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad workers", map[string]string{EnvWorkers: "many"}},
		{"bad bool", map[string]string{EnvSkipErrors: "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.ApplyEnv(func(key string) (string, bool) {
				v, ok := tt.env[key]
				return v, ok
			})
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"json", func(c *Config) { c.Output = "json" }, false},
		{"bad output", func(c *Config) { c.Output = "xml" }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"error level", func(c *Config) { c.LogLevel = "error" }, false},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
