// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

// Package cloud defines the supported target clouds and the per-cloud
// build profiles: SSH users, default regions, source image selectors,
// and the log markers that signal a successful image build.
package cloud

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Target identifies the cloud provider an image is built for.
type Target int

// Supported target clouds.
const (
	AWS Target = iota
	GCE
	Azure
)

var targetNames = map[Target]string{
	AWS:   "aws",
	GCE:   "gce",
	Azure: "azure",
}

// String returns the CLI name of the target.
func (t Target) String() string {
	if name, ok := targetNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// Targets returns the names of all supported targets in stable order.
func Targets() []string {
	names := make([]string, 0, len(targetNames))
	for _, name := range targetNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTarget converts a CLI target name to a Target. Unknown names
// produce an error that suggests the closest supported target.
func ParseTarget(name string) (Target, error) {
	for t, n := range targetNames {
		if n == strings.ToLower(name) {
			return t, nil
		}
	}

	supported := Targets()
	if matches := fuzzy.RankFindNormalizedFold(name, supported); len(matches) > 0 {
		sort.Sort(matches)
		return 0, fmt.Errorf("unsupported target %q (did you mean %q?)", name, matches[0].Target)
	}
	return 0, fmt.Errorf("unsupported target %q (supported: %s)", name, strings.Join(supported, ", "))
}

// Arch is the CPU architecture the image is built for. The values are
// passed through verbatim to the builder template.
type Arch string

// Supported architectures.
const (
	ArchX86_64  Arch = "x86_64"
	ArchAarch64 Arch = "aarch64"
)

// ParseArch validates a CLI architecture name.
func ParseArch(name string) (Arch, error) {
	switch Arch(name) {
	case ArchX86_64, ArchAarch64:
		return Arch(name), nil
	}
	return "", fmt.Errorf("unsupported architecture %q (supported: %s, %s)", name, ArchX86_64, ArchAarch64)
}
