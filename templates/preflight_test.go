// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/syuu1228/scylla-machine-image/errors"
)

const sampleHCL = `
packer {
  required_plugins {
    amazon = {
      version = ">= 1.2.0"
      source  = "github.com/hashicorp/amazon"
    }
  }
}

variable "scylla_version" {
  type = string
}

variable "instance_type" {
  type    = string
  default = "c4.xlarge"
}

variable "debug_image" {
  default = false
}

source "amazon-ebs" "image" {
  region = "us-east-1"
}

source "googlecompute" "image" {
  zone = "us-east1-b"
}

build {
  sources = ["source.amazon-ebs.image"]
}
`

func writeTemplate(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadHCL(t *testing.T) {
	tmpl, err := Load(writeTemplate(t, "scylla.pkr.hcl", sampleHCL))
	require.NoError(t, err)

	assert.True(t, tmpl.Sources["amazon-ebs.image"])
	assert.True(t, tmpl.Sources["googlecompute.image"])
	assert.Len(t, tmpl.Sources, 2)

	require.Contains(t, tmpl.Variables, "scylla_version")
	require.Contains(t, tmpl.Variables, "instance_type")
	assert.Equal(t, cty.NilVal, tmpl.Variables["scylla_version"])
	assert.Equal(t, cty.StringVal("c4.xlarge"), tmpl.Variables["instance_type"])
}

func TestLoadJSON(t *testing.T) {
	const sampleJSON = `{
  "variable": {
    "scylla_version": {"type": "string"},
    "region": {"default": "us-east-1"}
  },
  "source": {
    "amazon-ebs": {
      "image": {"region": "us-east-1"}
    }
  }
}`

	tmpl, err := Load(writeTemplate(t, "scylla.pkr.json", sampleJSON))
	require.NoError(t, err)

	assert.True(t, tmpl.Sources["amazon-ebs.image"])
	assert.Contains(t, tmpl.Variables, "scylla_version")
	assert.Contains(t, tmpl.Variables, "region")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.pkr.hcl"))
	require.Error(t, err)

	var cfgErr *errors.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeTemplate(t, "broken.pkr.hcl", `source "amazon-ebs" {`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestCheckSource(t *testing.T) {
	tmpl, err := Load(writeTemplate(t, "scylla.pkr.hcl", sampleHCL))
	require.NoError(t, err)

	assert.NoError(t, tmpl.CheckSource("amazon-ebs.image"))

	err = tmpl.CheckSource("azure-arm.image")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "azure-arm.image")
	assert.Contains(t, err.Error(), "amazon-ebs.image")
}

func TestCheckVariables(t *testing.T) {
	tmpl, err := Load(writeTemplate(t, "scylla.pkr.hcl", sampleHCL))
	require.NoError(t, err)

	assert.NoError(t, tmpl.CheckVariables([]string{"scylla_version", "instance_type"}))

	err = tmpl.CheckVariables([]string{"scylla_version", "image_name", "build_id"})
	require.Error(t, err)

	var cfgErr *errors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "image_name")
	assert.Contains(t, err.Error(), "build_id")
	assert.NotContains(t, err.Error(), "scylla_version,")
}

func TestDescribeDefaults(t *testing.T) {
	tmpl, err := Load(writeTemplate(t, "scylla.pkr.hcl", sampleHCL))
	require.NoError(t, err)

	out := tmpl.DescribeDefaults()
	assert.Contains(t, out, "instance_type=c4.xlarge")
	assert.NotContains(t, out, "scylla_version")
}
