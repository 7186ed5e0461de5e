// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

// Package build resolves command-line options into an immutable build
// request and serializes the request into the variable arguments the
// Packer template expects.
package build

import (
	"github.com/syuu1228/scylla-machine-image/cloud"
)

// Mode is the build variant of the software being imaged. It affects
// image naming only.
type Mode string

// Supported build modes.
const (
	ModeRelease Mode = "release"
	ModeDebug   Mode = "debug"
)

// ParseMode validates a build mode name.
func ParseMode(name string) (Mode, error) {
	switch Mode(name) {
	case ModeRelease, ModeDebug:
		return Mode(name), nil
	}
	return "", errUnsupportedValue("build mode", name, string(ModeRelease), string(ModeDebug))
}

// EnvTag classifies the release channel an image belongs to.
type EnvTag string

// Supported environment tags.
const (
	EnvDaily      EnvTag = "daily"
	EnvCandidate  EnvTag = "candidate"
	EnvProduction EnvTag = "production"
	EnvPrivate    EnvTag = "private"
	EnvDebug      EnvTag = "debug"
)

// ParseEnvTag validates an environment tag name.
func ParseEnvTag(name string) (EnvTag, error) {
	switch EnvTag(name) {
	case EnvDaily, EnvCandidate, EnvProduction, EnvPrivate, EnvDebug:
		return EnvTag(name), nil
	}
	return "", errUnsupportedValue("env tag", name,
		string(EnvDaily), string(EnvCandidate), string(EnvProduction), string(EnvPrivate), string(EnvDebug))
}

// Request is the fully-resolved set of options needed to build one
// image. It is constructed once by the Resolver and never mutated
// after the invoker starts.
type Request struct {
	// Product is the product name, from --product or the product file.
	Product string

	// Version and Release identify the software being imaged.
	Version string
	Release string

	// Target is the cloud provider the image is built for.
	Target cloud.Target

	// Arch is the CPU architecture of the image.
	Arch cloud.Arch

	// BuildMode is the release or debug variant being imaged.
	BuildMode Mode

	// EnvTag classifies the release channel.
	EnvTag EnvTag

	// RepoForInstall and RepoForUpdate are the package repository URLs
	// baked into the image.
	RepoForInstall string
	RepoForUpdate  string

	// AMIRegions lists additional regions the finished AMI is copied
	// to. AWS only.
	AMIRegions []string

	// InstanceType is the builder VM type, either the per-target
	// default or the --ec2-instance-type override.
	InstanceType string

	// SourceImage selects the base image for the build.
	SourceImage string

	// SSHUser and Region come from the target profile.
	SSHUser string
	Region  string

	// Debug marks a debug image; the image name gets a "debug-" prefix.
	Debug bool

	// DryRun switches the invoker to validate-only mode.
	DryRun bool

	// Branch, BuildTag, and BuildSHAID describe the source revision the
	// image was produced from.
	Branch     string
	BuildTag   string
	BuildSHAID string

	// LogFile is where the builder writes its log; verification reads
	// it back after the build.
	LogFile string

	// VariablesFile is the per-cloud variables file passed through to
	// the builder unmodified.
	VariablesFile string

	// ImageName is the derived name of the image under construction.
	ImageName string

	// BuildID uniquely identifies this run.
	BuildID string

	// BuiltBy records the git author of the operator, when available.
	BuiltBy string
}
