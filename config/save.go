// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/syuu1228/scylla-machine-image/errors"
)

// DefaultPath returns the preferred location for the config file.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap("locate home directory", "", err)
	}
	return filepath.Join(home, ".scylla-machine-image", "config.yaml"), nil
}

// Save writes the configuration as YAML to path, creating the parent
// directory if needed. Used by the init command to scaffold a config
// file with the current effective values.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap("create config directory", filepath.Dir(path), err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap("marshal config", "", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap("write config file", path, err)
	}
	return nil
}
