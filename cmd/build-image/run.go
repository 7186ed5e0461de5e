// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/syuu1228/scylla-machine-image/build"
	"github.com/syuu1228/scylla-machine-image/cloud"
	"github.com/syuu1228/scylla-machine-image/config"
	"github.com/syuu1228/scylla-machine-image/errors"
	"github.com/syuu1228/scylla-machine-image/logging"
	"github.com/syuu1228/scylla-machine-image/packer"
	"github.com/syuu1228/scylla-machine-image/templates"
	"github.com/syuu1228/scylla-machine-image/verify"
)

// runBuild drives one build run end to end: resolve parameters,
// preflight the template, invoke the builder, verify the log.
func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := configFromContext(cmd)
	if cfg == nil {
		cfg = &config.Config{}
	}

	resolver := build.NewResolver()
	if cfg.Build.Dir != "" {
		resolver.BuildDir = cfg.Build.Dir
	}

	req, err := resolver.Resolve(ctx, *buildOpts)
	if err != nil {
		logging.ErrorContext(ctx, err)
		return err
	}

	profile, ok := cloud.ProfileFor(req.Target)
	if !ok {
		// The resolver only admits supported targets.
		return errors.Configurationf("no profile for target %q", req.Target)
	}

	logging.InfoContext(ctx, "building %s for %s (%s, %s mode, repo %s)",
		req.ImageName, req.Target, req.Arch, req.BuildMode, logging.RedactURL(req.RepoForInstall))

	templatePath := cfg.Build.Template
	if templatePath == "" {
		templatePath = "scylla.pkr.hcl"
	}
	tmpl, err := templates.Load(templatePath)
	if err != nil {
		logging.ErrorContext(ctx, err)
		return err
	}
	if err := tmpl.CheckSource(profile.SourceName); err != nil {
		logging.ErrorContext(ctx, err)
		return err
	}
	varKeys := make([]string, 0, len(req.Variables()))
	for _, v := range req.Variables() {
		varKeys = append(varKeys, v.Key)
	}
	if err := tmpl.CheckVariables(varKeys); err != nil {
		logging.ErrorContext(ctx, err)
		return err
	}
	logging.DebugContext(ctx, "template defaults: %s", tmpl.DescribeDefaults())

	runner := packer.NewCommandRunner(".", req.LogFile)
	if cfg.Build.PackerPath != "" {
		runner.PackerPath = cfg.Build.PackerPath
	}
	invokeArgs := req.InvokeArgs(profile.SourceName, templatePath)

	if req.DryRun {
		return runValidate(cmd, runner, invokeArgs)
	}

	exitCode, err := runner.Build(ctx, invokeArgs)
	if err != nil {
		logging.ErrorContext(ctx, err)
		return err
	}
	if exitCode != 0 {
		// Surfaced, but verification still runs: the log tells us
		// whether an artifact was produced despite the exit status.
		logging.WarnContext(ctx, "packer exited with status %d, checking build log", exitCode)
	}

	result, err := verify.Scan(profile, req.LogFile)
	if err != nil {
		logging.ErrorContext(ctx, err)
		return err
	}
	if exitCode != 0 {
		invErr := &errors.InvocationError{ExitCode: exitCode}
		logging.ErrorContext(ctx, invErr)
		return invErr
	}

	if verifyAMI && req.Target == cloud.AWS {
		if err := verify.NewAMIVerifier().VerifyArtifacts(ctx, result.Artifacts); err != nil {
			logging.ErrorContext(ctx, err)
			return err
		}
	}

	logging.InfoContext(ctx, "build succeeded: marker %q found in %s", result.Marker, req.LogFile)
	for _, artifact := range result.Artifacts {
		logging.InfoContext(ctx, "artifact: %s %s", artifact.Region, artifact.ID)
	}
	return nil
}

// runValidate performs the validate-only path. Verification is
// trivially successful in this mode; no log file is read.
func runValidate(cmd *cobra.Command, runner *packer.CommandRunner, args []string) error {
	ctx := cmd.Context()

	exitCode, err := runner.Validate(ctx, args)
	if err != nil {
		logging.ErrorContext(ctx, err)
		return err
	}
	if exitCode != 0 {
		invErr := &errors.InvocationError{ExitCode: exitCode}
		logging.ErrorContext(ctx, invErr)
		return invErr
	}

	logging.InfoContext(ctx, "template and parameters are valid")
	return nil
}
