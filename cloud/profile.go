// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"github.com/syuu1228/scylla-machine-image/errors"
)

// Profile holds the static per-target configuration consulted during
// parameter resolution and post-build verification. One Profile exists
// per Target; the table is read-only process-wide state.
type Profile struct {
	// Target is the cloud this profile describes.
	Target Target

	// SSHUser is the user Packer connects with during provisioning.
	SSHUser string

	// Region is the default build region. Empty for targets whose
	// region comes solely from the variables file.
	Region string

	// VariablesFile is the per-cloud variables file that must exist in
	// the working directory. Its contents are opaque and passed through
	// to Packer with -var-file.
	VariablesFile string

	// SourceName is the Packer source the build is restricted to with
	// -only. It must match a source block in the build template.
	SourceName string

	// SuccessMarker is the literal log line fragment Packer emits on a
	// successful build for this target. The marker strings are a
	// versioned contract with Packer; the tests pin them so that
	// wording drift surfaces as a test failure.
	SuccessMarker string

	// ProductOverride replaces the product component of the image name,
	// for targets whose catalog requires a fixed publisher prefix.
	ProductOverride string
}

var profiles = map[Target]Profile{
	AWS: {
		Target:        AWS,
		SSHUser:       "ubuntu",
		Region:        "us-east-1",
		VariablesFile: "aws_variables.json",
		SourceName:    "amazon-ebs.image",
		SuccessMarker: "us-east-1:",
	},
	GCE: {
		Target:        GCE,
		SSHUser:       "ubuntu",
		Region:        "us-east1",
		VariablesFile: "gce_variables.json",
		SourceName:    "googlecompute.image",
		SuccessMarker: "A disk image was created",
	},
	Azure: {
		Target:          Azure,
		SSHUser:         "azureuser",
		Region:          "EAST US",
		VariablesFile:   "azure_variables.json",
		SourceName:      "azure-arm.image",
		SuccessMarker:   "Builds finished. The artifacts of successful builds are:",
		ProductOverride: "scylladb",
	},
}

// ProfileFor returns the profile for the given target. The bool result
// is false for targets outside the supported set; callers that have
// already validated the target treat that as an internal error.
func ProfileFor(target Target) (Profile, bool) {
	p, ok := profiles[target]
	return p, ok
}

// Defaults are the target- and architecture-derived values filled in
// when the corresponding flags are omitted.
type Defaults struct {
	// InstanceType is the builder VM type.
	InstanceType string

	// SourceImage selects the base image: an AMI name filter on AWS, an
	// image family on GCE. Azure bases come from the variables file.
	SourceImage string

	// SSHUser and Region are copied from the target profile.
	SSHUser string
	Region  string
}

// awsDefaults keys instance type and source AMI filter by architecture.
var awsDefaults = map[Arch]Defaults{
	ArchX86_64: {
		InstanceType: "c4.xlarge",
		SourceImage:  "ubuntu/images/hvm-ssd/ubuntu-jammy-22.04-amd64-server-*",
	},
	ArchAarch64: {
		InstanceType: "im4gn.2xlarge",
		SourceImage:  "ubuntu/images/hvm-ssd/ubuntu-jammy-22.04-arm64-server-*",
	},
}

// gceImageFamily is the source image family used for all GCE builds.
const gceImageFamily = "ubuntu-2204-lts"

// DefaultsFor derives the per-target defaults for the given
// architecture. AWS requires a supported architecture to pick the
// instance type and source AMI filter; GCE and Azure accept any.
func DefaultsFor(target Target, arch Arch) (Defaults, error) {
	profile, ok := ProfileFor(target)
	if !ok {
		return Defaults{}, errors.Configurationf("no profile for target %q", target)
	}

	d := Defaults{SSHUser: profile.SSHUser, Region: profile.Region}

	switch target {
	case AWS:
		archDefaults, ok := awsDefaults[arch]
		if !ok {
			return Defaults{}, errors.Configurationf("unsupported architecture %q for target aws", string(arch))
		}
		d.InstanceType = archDefaults.InstanceType
		d.SourceImage = archDefaults.SourceImage
	case GCE:
		d.SourceImage = gceImageFamily
	case Azure:
		// Base image and VM size come from the variables file.
	}

	return d, nil
}
