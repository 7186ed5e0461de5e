// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

// Package verify inspects the builder's log output for the
// target-specific success marker. The marker is the sole source of
// truth for build success: Packer's exit status alone is not trusted,
// because it can report success without producing an artifact line.
package verify

import (
	"bufio"
	"os"
	"strings"

	"github.com/syuu1228/scylla-machine-image/cloud"
	"github.com/syuu1228/scylla-machine-image/errors"
)

// Result is the outcome of one log verification pass.
type Result struct {
	// MarkerFound reports whether the success marker appeared.
	MarkerFound bool

	// Marker is the literal fragment that was searched for.
	Marker string

	// Artifacts lists the per-region AMI IDs collected from the log.
	// AWS builds only.
	Artifacts []AMIArtifact
}

// Scan reads the log file once, fully, and searches for the target
// profile's success marker. For AWS it also collects the artifact
// lines naming the produced AMIs.
func Scan(profile cloud.Profile, logPath string) (Result, error) {
	if profile.SuccessMarker == "" {
		// Unreachable for validated targets; the resolver only admits
		// targets with a profile.
		return Result{}, errors.Configurationf("no success marker defined for target %q", profile.Target)
	}

	f, err := os.Open(logPath)
	if err != nil {
		return Result{}, errors.Wrap("open build log", logPath, err)
	}
	defer f.Close()

	result := Result{Marker: profile.SuccessMarker}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, profile.SuccessMarker) {
			result.MarkerFound = true
		}
		if profile.Target == cloud.AWS {
			if artifact, ok := parseAMIArtifact(line); ok {
				result.Artifacts = append(result.Artifacts, artifact)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, errors.Wrap("read build log", logPath, err)
	}

	if !result.MarkerFound {
		return result, &errors.VerificationError{Marker: profile.SuccessMarker, LogPath: logPath}
	}
	return result, nil
}
