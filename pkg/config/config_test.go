// Zaparoo Local Games
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_WritesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := NewConfigAt(filepath.Join(dir, "sub", CfgFile), BaseDefaults)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "sub", CfgFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "config_schema = 1")
	assert.NotEmpty(t, cfg.DeviceID())
	assert.False(t, cfg.DebugLogging())

	enabled, _ := cfg.ErrorReporting()
	assert.False(t, enabled)
}

func TestNewConfig_EnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	t.Setenv(CfgEnv, path)

	cfg, err := NewConfig(t.TempDir(), BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())
	assert.FileExists(t, path)
}

func TestLoad_OverlaysFileOnDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), CfgFile)
	require.NoError(t, os.WriteFile(path, []byte(`
config_schema = 1
debug_logging = true
device_id = "abc"

[telemetry]
enabled = true
dsn = "https://key@example.com/1"

[tracking]
poll_interval = "250ms"
`), 0o600))

	defaults := BaseDefaults
	defaults.Tracking.ProgramData = "/default"

	cfg, err := NewConfigAt(path, defaults)
	require.NoError(t, err)

	assert.True(t, cfg.DebugLogging())
	assert.Equal(t, "abc", cfg.DeviceID())
	enabled, dsn := cfg.ErrorReporting()
	assert.True(t, enabled)
	assert.Equal(t, "https://key@example.com/1", dsn)
	assert.Equal(t, "/default", cfg.ProgramData(""))
}

func TestLoad_SchemaMismatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), CfgFile)
	require.NoError(t, os.WriteFile(path, []byte("config_schema = 99\n"), 0o600))

	_, err := NewConfigAt(path, BaseDefaults)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), CfgFile)
	require.NoError(t, os.WriteFile(path, []byte("config_schema = [\n"), 0o600))

	_, err := NewConfigAt(path, BaseDefaults)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), CfgFile)
	cfg, err := NewConfigAt(path, BaseDefaults)
	require.NoError(t, err)
	id := cfg.DeviceID()

	cfg.SetDebugLogging(true)
	cfg.SetErrorReporting(true, "https://key@example.com/2")
	cfg.SetFullScanEvery(3)
	cfg.SetWatchFiles(false)
	require.NoError(t, cfg.Save())

	again, err := NewConfigAt(path, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, id, again.DeviceID(), "device id is stable")
	assert.True(t, again.DebugLogging())
	assert.Equal(t, 3, again.FullScanEvery())
	assert.False(t, again.WatchFiles())
	enabled, _ := again.ErrorReporting()
	assert.True(t, enabled)
}

func TestErrorReporting_NeedsDSN(t *testing.T) {
	t.Parallel()

	cfg := &Instance{}
	cfg.SetErrorReporting(true, "")
	enabled, _ := cfg.ErrorReporting()
	assert.False(t, enabled)
}
