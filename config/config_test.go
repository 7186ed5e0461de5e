// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Run from an empty directory so no stray config file is picked up.
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "build", cfg.Build.Dir)
	assert.Equal(t, "scylla.pkr.hcl", cfg.Build.Template)
	assert.Equal(t, "packer", cfg.Build.PackerPath)
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
build:
  dir: /srv/scylla/build
  packer_path: /opt/packer/packer
`), 0o644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/srv/scylla/build", cfg.Build.Dir)
	// Unset keys keep their defaults.
	assert.Equal(t, "scylla.pkr.hcl", cfg.Build.Template)
	assert.Equal(t, "/opt/packer/packer", cfg.Build.PackerPath)
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SCYLLA_MACHINE_IMAGE_LOG_LEVEL", "debug")

	v := NewViper()
	assert.Equal(t, "debug", v.GetString("log.level"))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &Config{
		Log:   LogConfig{Level: "warn", Format: "color"},
		Build: BuildConfig{Dir: "out", Template: "custom.pkr.hcl", PackerPath: "packer"},
	}

	require.NoError(t, Save(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".scylla-machine-image", "config.yaml"), path)
}
