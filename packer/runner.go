// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

// Package packer runs the external Packer binary. The tool is treated
// as a black box exposing only an exit code and a log file; success is
// judged separately by scanning the log.
package packer

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/syuu1228/scylla-machine-image/logging"
)

// Runner executes Packer sub-commands.
type Runner interface {
	// Build runs `packer build` and returns the exit status.
	Build(ctx context.Context, args []string) (int, error)

	// Validate runs `packer validate` and returns the exit status.
	Validate(ctx context.Context, args []string) (int, error)
}

// CommandRunner invokes the packer binary as a blocking subprocess.
type CommandRunner struct {
	// PackerPath is the binary to execute, "packer" by default.
	PackerPath string

	// Dir is the working directory for the subprocess.
	Dir string

	// LogFile, when set, is exported as PACKER_LOG_PATH so Packer
	// writes its full log there for post-build verification.
	LogFile string
}

// NewCommandRunner creates a runner for the packer binary on PATH.
func NewCommandRunner(dir, logFile string) *CommandRunner {
	return &CommandRunner{
		PackerPath: "packer",
		Dir:        dir,
		LogFile:    logFile,
	}
}

// Build runs `packer build` with the given arguments.
func (r *CommandRunner) Build(ctx context.Context, args []string) (int, error) {
	return r.run(ctx, "build", args)
}

// Validate runs `packer validate` with the given arguments.
func (r *CommandRunner) Validate(ctx context.Context, args []string) (int, error) {
	return r.run(ctx, "validate", args)
}

// run executes one packer sub-command, streaming its combined output to
// the console. Returns the subprocess exit status; the error result is
// reserved for failures to start the process at all.
func (r *CommandRunner) run(ctx context.Context, subCmd string, args []string) (int, error) {
	argv := append([]string{subCmd}, args...)

	logging.InfoContext(ctx, "executing: %s", shellquote.Join(append([]string{r.PackerPath}, redactArgs(argv)...)...))

	cmd := exec.CommandContext(ctx, r.PackerPath, argv...)
	cmd.Dir = r.Dir
	cmd.Stdout = consoleWriter{ctx}
	cmd.Stderr = consoleWriter{ctx}
	cmd.Env = os.Environ()
	if r.LogFile != "" {
		cmd.Env = append(cmd.Env,
			"PACKER_LOG=1",
			fmt.Sprintf("PACKER_LOG_PATH=%s", r.LogFile),
		)
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("failed to run %s %s: %w", r.PackerPath, subCmd, err)
	}
	return 0, nil
}

// consoleWriter streams subprocess output through the context logger so
// quiet mode and output formats apply uniformly.
type consoleWriter struct {
	ctx context.Context
}

func (w consoleWriter) Write(p []byte) (int, error) {
	logging.PrintContext(w.ctx, string(p))
	return len(p), nil
}

// redactArgs strips credentials from URL-carrying key=value arguments
// before they are logged.
func redactArgs(args []string) []string {
	redacted := make([]string, len(args))
	for i, arg := range args {
		if key, value, found := strings.Cut(arg, "="); found && strings.Contains(value, "://") {
			redacted[i] = key + "=" + logging.RedactURL(value)
		} else {
			redacted[i] = arg
		}
	}
	return redacted
}
