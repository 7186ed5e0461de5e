// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

// Package config loads tool configuration with the precedence
// CLI flags > environment variables > config file > defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/syuu1228/scylla-machine-image/errors"
)

// EnvPrefix namespaces the tool's environment variables, e.g.
// SCYLLA_MACHINE_IMAGE_LOG_LEVEL.
const EnvPrefix = "SCYLLA_MACHINE_IMAGE"

// Config holds the configuration for the tool.
type Config struct {
	Log   LogConfig   `mapstructure:"log" yaml:"log"`
	Build BuildConfig `mapstructure:"build" yaml:"build"`
}

// LogConfig stores the configuration for the logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format is one of text, color, json.
	Format string `mapstructure:"format" yaml:"format"`
}

// BuildConfig stores the paths the build run depends on.
type BuildConfig struct {
	// Dir holds the release identity files and the default log file.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// Template is the Packer template passed to every invocation.
	Template string `mapstructure:"template" yaml:"template"`

	// PackerPath is the builder binary, "packer" by default.
	PackerPath string `mapstructure:"packer_path" yaml:"packer_path"`
}

// NewViper creates a Viper instance with the tool's defaults, config
// search paths, and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".scylla-machine-image"))
	}
	v.AddConfigPath(".")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("build.dir", "build")
	v.SetDefault("build.template", "scylla.pkr.hcl")
	v.SetDefault("build.packer_path", "packer")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads configuration from the search paths. A missing config
// file is not an error; the defaults apply.
func Load() (*Config, error) {
	return unmarshal(NewViper(), "")
}

// LoadFromPath reads configuration from an explicit file.
func LoadFromPath(path string) (*Config, error) {
	return unmarshal(NewViper(), path)
}

func unmarshal(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap("read config file", path, err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap("read config file", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap("unmarshal config", "", err)
	}
	return &cfg, nil
}
