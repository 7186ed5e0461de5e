// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syuu1228/scylla-machine-image/cloud"
)

func fullRequest() *Request {
	return &Request{
		Product:        "scylla",
		Version:        "6.0.1",
		Release:        "0.20260826.abcdef",
		Target:         cloud.AWS,
		Arch:           cloud.ArchX86_64,
		BuildMode:      ModeRelease,
		EnvTag:         EnvCandidate,
		RepoForInstall: "https://example.com/install.list",
		RepoForUpdate:  "https://example.com/update.list",
		AMIRegions:     []string{"us-east-1", "eu-west-1"},
		InstanceType:   "c4.xlarge",
		SourceImage:    "ubuntu/images/*ubuntu-jammy-22.04-amd64-server-*",
		SSHUser:        "ubuntu",
		Region:         "us-east-1",
		Debug:          true,
		Branch:         "branch-6.0",
		BuildTag:       "jenkins-scylla-42",
		BuildSHAID:     "abcdef0123456789",
		LogFile:        "build/packer-build-aws.log",
		VariablesFile:  "aws_variables.json",
		ImageName:      "scylla-6.0.1-x86_64-20260826-150405",
		BuildID:        "7b0c2f9e-4ac5-4da5-a0f3-0c6a5b9b6c21",
		BuiltBy:        "Test Dev <dev@example.com>",
	}
}

func TestVariablesCoverEveryField(t *testing.T) {
	vars := fullRequest().Variables()

	byKey := make(map[string]string, len(vars))
	for _, v := range vars {
		_, dup := byKey[v.Key]
		require.False(t, dup, "duplicate variable %q", v.Key)
		byKey[v.Key] = v.Value
	}

	want := map[string]string{
		"product":                 "scylla",
		"scylla_version":          "6.0.1",
		"scylla_release":          "0.20260826.abcdef",
		"target":                  "aws",
		"arch":                    "x86_64",
		"scylla_build_mode":       "release",
		"environment":             "candidate",
		"scylla_repo_for_install": "https://example.com/install.list",
		"scylla_repo_for_update":  "https://example.com/update.list",
		"ami_regions":             "us-east-1,eu-west-1",
		"instance_type":           "c4.xlarge",
		"source_image":            "ubuntu/images/*ubuntu-jammy-22.04-amd64-server-*",
		"ssh_username":            "ubuntu",
		"region":                  "us-east-1",
		"debug_image":             "true",
		"branch":                  "branch-6.0",
		"build_tag":               "jenkins-scylla-42",
		"scylla_build_sha_id":     "abcdef0123456789",
		"image_name":              "scylla-6.0.1-x86_64-20260826-150405",
		"build_id":                "7b0c2f9e-4ac5-4da5-a0f3-0c6a5b9b6c21",
		"built_by":                "Test Dev <dev@example.com>",
	}
	assert.Equal(t, want, byKey)
}

func TestVariablesUnsetFieldsStayPresent(t *testing.T) {
	req := &Request{Target: cloud.GCE, Arch: cloud.ArchAarch64, BuildMode: ModeDebug, EnvTag: EnvDaily}
	byKey := make(map[string]string)
	for _, v := range req.Variables() {
		byKey[v.Key] = v.Value
	}

	// Unset optional fields keep their keys so the template always sees
	// the full variable set.
	assert.Contains(t, byKey, "ami_regions")
	assert.Empty(t, byKey["ami_regions"])
	assert.Contains(t, byKey, "build_tag")
	assert.Empty(t, byKey["build_tag"])
	assert.Equal(t, "false", byKey["debug_image"])
	assert.Equal(t, "debug", byKey["scylla_build_mode"])
	assert.Equal(t, "daily", byKey["environment"])
}

func TestVariablesStableOrder(t *testing.T) {
	req := fullRequest()
	first := req.Variables()
	second := req.Variables()
	assert.Equal(t, first, second)
	assert.Equal(t, "product", first[0].Key)
}

func TestInvokeArgs(t *testing.T) {
	req := fullRequest()
	args := req.InvokeArgs("amazon-ebs.image", "scylla.pkr.hcl")

	require.GreaterOrEqual(t, len(args), 4)
	assert.Equal(t, "-only=amazon-ebs.image", args[0])
	assert.Equal(t, "-var-file=aws_variables.json", args[1])
	assert.Equal(t, "scylla.pkr.hcl", args[len(args)-1])

	// Each variable appears as a -var key=value pair in between.
	pairs := args[2 : len(args)-1]
	require.Equal(t, len(req.Variables())*2, len(pairs))
	for i := 0; i < len(pairs); i += 2 {
		assert.Equal(t, "-var", pairs[i])
		assert.Contains(t, pairs[i+1], "=")
	}

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "image_name=scylla-6.0.1-x86_64-20260826-150405")
	assert.Contains(t, joined, "debug_image=true")
}
