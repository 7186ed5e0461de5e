// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/syuu1228/scylla-machine-image/build"
	"github.com/syuu1228/scylla-machine-image/config"
	"github.com/syuu1228/scylla-machine-image/logging"
)

// version is set at release time via -ldflags.
var version = "dev"

// configKeyType is the context key type for the loaded config.
type configKeyType struct{}

var configKey = configKeyType{}

var (
	cfgFile   string
	buildOpts = &build.Options{}
	verifyAMI bool
)

var rootCmd = &cobra.Command{
	Use:   "build-image",
	Short: "Build a Scylla machine image for a target cloud",
	Long: `build-image resolves release parameters (version, repository,
architecture, build mode) into a Packer invocation for the requested
target cloud (aws, gce, or azure) and verifies the build log for the
target's success marker afterwards.`,
	Version:           version,
	SilenceUsage:      true,
	Args:              cobra.NoArgs,
	PersistentPreRunE: initConfig,
	RunE:              runBuild,
}

func init() {
	flags := rootCmd.Flags()

	flags.StringVar(&buildOpts.Repo, "repo", "", "Repository URL for both install and update")
	flags.StringVar(&buildOpts.RepoForInstall, "repo-for-install", "", "Repository URL used at install time")
	flags.StringVar(&buildOpts.RepoForUpdate, "repo-for-update", "", "Repository URL used at update time")
	flags.StringVar(&buildOpts.Product, "product", "", "Product name (default read from the product file)")
	flags.StringVar(&buildOpts.Target, "target", "", "Target cloud: aws, gce, or azure")
	flags.StringVar(&buildOpts.Arch, "arch", "", "Image architecture: x86_64 or aarch64")
	flags.StringVar(&buildOpts.BuildMode, "build-mode", "release", "Build mode: release or debug")
	flags.StringVar(&buildOpts.EnvTag, "env-tag", "debug", "Environment tag: daily, candidate, production, private, or debug")
	flags.StringSliceVar(&buildOpts.AMIRegions, "ami-regions", nil, "Additional regions to copy the finished AMI to")
	flags.StringVar(&buildOpts.InstanceType, "ec2-instance-type", "", "Builder instance type override")
	flags.StringVar(&buildOpts.Branch, "branch", "", "Source branch (default from the enclosing git work tree)")
	flags.StringVar(&buildOpts.BuildTag, "build-tag", "", "CI build tag")
	flags.StringVar(&buildOpts.BuildSHAID, "scylla-build-sha-id", "", "Source SHA (default from the enclosing git work tree)")
	flags.StringVar(&buildOpts.LogFile, "log-file", "", "Packer log file path (default under the build directory)")
	flags.BoolVar(&buildOpts.Debug, "debug", false, "Build a debug image (prefixes the image name)")
	flags.BoolVar(&buildOpts.DryRun, "dry-run", false, "Validate the template and parameters without building")
	flags.BoolVar(&verifyAMI, "verify-ami", false, "Confirm produced AMIs exist via the EC2 API (aws only)")

	if err := rootCmd.MarkFlagRequired("target"); err != nil {
		panic(err)
	}

	pflags := rootCmd.PersistentFlags()
	pflags.StringVarP(&cfgFile, "config", "c", "", "Config file (default is $HOME/.scylla-machine-image/config.yaml)")
	pflags.String("log-level", "", "Log level (debug, info, warn, error)")
	pflags.String("log-format", "", "Log format (text, json, color)")
	pflags.BoolP("quiet", "q", false, "Quiet mode - only show errors")
	pflags.BoolP("verbose", "v", false, "Verbose mode - show debug output")

	rootCmd.AddCommand(initCmd)
}

// configFromContext retrieves the config stored by initConfig.
func configFromContext(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey).(*config.Config); ok {
		return cfg
	}
	return nil
}

// initConfig establishes the configuration precedence
// CLI flags > environment variables > config file > defaults
// and stores the effective config and logger in the command context.
func initConfig(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromPath(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()

	bindFlagsToViper(v, cmd)

	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := logging.NewWithOptions(cfg.Log.Level, cfg.Log.Format, quiet, verbose)

	ctx := context.WithValue(cmd.Context(), configKey, cfg)
	ctx = logging.WithLogger(ctx, logger)
	cmd.SetContext(ctx)

	return nil
}

// bindFlagsToViper binds the log flags so explicitly-set flags win over
// environment and config file values.
func bindFlagsToViper(v *viper.Viper, cmd *cobra.Command) {
	bind := func(f *pflag.Flag) {
		if f.Name != "log-level" && f.Name != "log-format" {
			return
		}
		key := "log." + strings.TrimPrefix(strings.ReplaceAll(f.Name, "-", "."), "log.")
		if f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				fmt.Printf("failed to bind flag %s: %v\n", f.Name, err)
			}
		}
	}
	cmd.Flags().VisitAll(bind)
	cmd.InheritedFlags().VisitAll(bind)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
