// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/syuu1228/scylla-machine-image/config"
	"github.com/syuu1228/scylla-machine-image/logging"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current effective values",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := configFromContext(cmd)
	if cfg == nil {
		cfg = &config.Config{}
	}

	path := cfgFile
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil {
		logging.WarnContext(ctx, "config file %s already exists, not overwriting", path)
		return nil
	}

	if err := config.Save(cfg, path); err != nil {
		logging.ErrorContext(ctx, err)
		return err
	}

	logging.InfoContext(ctx, "wrote config file %s", path)
	return nil
}
