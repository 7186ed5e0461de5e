// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

package verify

import (
	"regexp"
	"strings"
)

// AMIArtifact is one produced machine image, as reported by the
// builder's per-region artifact lines ("us-east-1: ami-0abc...").
type AMIArtifact struct {
	Region string
	ID     string
}

// amiArtifactPattern matches the region and AMI ID of an artifact
// line. Log lines may carry timestamps or UI prefixes ahead of the
// region, so the match is anchored to the end of the line.
var amiArtifactPattern = regexp.MustCompile(`([a-z]{2}(?:-[a-z]+)+-\d+):\s*(ami-[0-9a-f]+)\s*$`)

// parseAMIArtifact extracts a region/AMI pair from a log line.
func parseAMIArtifact(line string) (AMIArtifact, bool) {
	m := amiArtifactPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return AMIArtifact{}, false
	}
	return AMIArtifact{Region: m[1], ID: m[2]}, true
}
