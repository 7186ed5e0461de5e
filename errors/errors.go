// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

// Package errors provides error wrapping helpers and the error kinds
// that terminate an image build run.
package errors

import "fmt"

// Wrap annotates err with the action that failed and an optional detail
// such as a file path or flag value. Returns nil if err is nil.
func Wrap(action, detail string, err error) error {
	if err == nil {
		return nil
	}
	if detail != "" {
		return fmt.Errorf("failed to %s (%s): %w", action, detail, err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// ConfigurationError reports invalid or missing build configuration:
// an unsupported architecture for a target, a missing variables file,
// or no repository URL.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// Configurationf builds a ConfigurationError from a format string.
func Configurationf(format string, args ...interface{}) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// InvocationError reports a non-zero exit status from the external
// image builder. It is surfaced alongside verification so that a
// missing success marker is never masked by the exit status.
type InvocationError struct {
	ExitCode int
	Err      error
}

func (e *InvocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("packer exited with status %d: %v", e.ExitCode, e.Err)
	}
	return fmt.Sprintf("packer exited with status %d", e.ExitCode)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// VerificationError reports that the expected success marker was not
// found in the build log.
type VerificationError struct {
	Marker  string
	LogPath string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("success marker %q not found in build log %s", e.Marker, e.LogPath)
}
