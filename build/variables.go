// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"fmt"
	"strconv"
	"strings"
)

// Variable is a single key=value argument passed to the builder
// template.
type Variable struct {
	Key   string
	Value string
}

// Variables serializes every request field into the template's
// variable form, in stable order. Optional fields that were never set
// pass through as empty strings rather than being elided, so the
// template sees a constant variable set.
func (r *Request) Variables() []Variable {
	return []Variable{
		{"product", r.Product},
		{"scylla_version", r.Version},
		{"scylla_release", r.Release},
		{"target", r.Target.String()},
		{"arch", string(r.Arch)},
		{"scylla_build_mode", string(r.BuildMode)},
		{"environment", string(r.EnvTag)},
		{"scylla_repo_for_install", r.RepoForInstall},
		{"scylla_repo_for_update", r.RepoForUpdate},
		{"ami_regions", strings.Join(r.AMIRegions, ",")},
		{"instance_type", r.InstanceType},
		{"source_image", r.SourceImage},
		{"ssh_username", r.SSHUser},
		{"region", r.Region},
		{"debug_image", strconv.FormatBool(r.Debug)},
		{"branch", r.Branch},
		{"build_tag", r.BuildTag},
		{"scylla_build_sha_id", r.BuildSHAID},
		{"image_name", r.ImageName},
		{"build_id", r.BuildID},
		{"built_by", r.BuiltBy},
	}
}

// InvokeArgs assembles the full builder argument list for this request:
// the -only source restriction, the opaque per-cloud variables file,
// every serialized variable, and finally the template path.
func (r *Request) InvokeArgs(sourceName, templatePath string) []string {
	args := []string{
		fmt.Sprintf("-only=%s", sourceName),
		fmt.Sprintf("-var-file=%s", r.VariablesFile),
	}
	for _, v := range r.Variables() {
		args = append(args, "-var", fmt.Sprintf("%s=%s", v.Key, v.Value))
	}
	return append(args, templatePath)
}
