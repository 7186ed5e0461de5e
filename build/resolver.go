// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/syuu1228/scylla-machine-image/cloud"
	"github.com/syuu1228/scylla-machine-image/errors"
	"github.com/syuu1228/scylla-machine-image/git"
	"github.com/syuu1228/scylla-machine-image/logging"
)

// Collaborator files under the build directory that supply release
// identity when the corresponding flags are omitted.
const (
	ProductFile = "SCYLLA-PRODUCT-FILE"
	VersionFile = "SCYLLA-VERSION-FILE"
	ReleaseFile = "SCYLLA-RELEASE-FILE"
)

// Options captures the raw CLI flag values before resolution.
type Options struct {
	// Repo sets both RepoForInstall and RepoForUpdate.
	Repo           string
	RepoForInstall string
	RepoForUpdate  string

	Product   string
	Target    string
	Arch      string
	BuildMode string
	EnvTag    string

	AMIRegions   []string
	InstanceType string

	Branch     string
	BuildTag   string
	BuildSHAID string

	LogFile string
	Debug   bool
	DryRun  bool
}

// Resolver turns Options into a validated Request. Its collaborator
// hooks are replaceable so tests can run without a git work tree or a
// fixed host architecture.
type Resolver struct {
	// BuildDir holds the product/version/release files and the default
	// log file location.
	BuildDir string

	// WorkDir is where the per-cloud variables files must exist.
	WorkDir string

	// Now supplies the timestamp embedded in the image name.
	Now func() time.Time

	// HostArch supplies the fallback architecture for targets that
	// allow it.
	HostArch func() cloud.Arch

	// GitHead resolves the branch and SHA of the enclosing work tree.
	GitHead func(path string) (branch, sha string, err error)

	// GitAuthor resolves the operator identity from git config.
	GitAuthor func() string
}

// NewResolver creates a Resolver with production collaborators.
func NewResolver() *Resolver {
	return &Resolver{
		BuildDir:  "build",
		WorkDir:   ".",
		Now:       time.Now,
		HostArch:  hostArch,
		GitHead:   git.HeadInfo,
		GitAuthor: git.Author,
	}
}

// Resolve validates the options and derives the per-cloud defaults,
// producing the immutable request consumed by the invoker.
func (r *Resolver) Resolve(ctx context.Context, opts Options) (*Request, error) {
	if opts.Target == "" {
		return nil, fmt.Errorf("target cloud must be set with --target")
	}
	target, err := cloud.ParseTarget(opts.Target)
	if err != nil {
		return nil, err
	}
	profile, ok := cloud.ProfileFor(target)
	if !ok {
		return nil, errors.Configurationf("no profile for target %q", target)
	}

	installRepo, updateRepo := opts.RepoForInstall, opts.RepoForUpdate
	if opts.Repo != "" {
		installRepo, updateRepo = opts.Repo, opts.Repo
	}
	if installRepo == "" {
		return nil, errors.Configurationf("no repository URL supplied (set --repo or --repo-for-install)")
	}

	arch, err := r.resolveArch(ctx, target, opts.Arch)
	if err != nil {
		return nil, err
	}

	mode := ModeRelease
	if opts.BuildMode != "" {
		if mode, err = ParseMode(opts.BuildMode); err != nil {
			return nil, err
		}
	}

	envTag := EnvDebug
	if opts.EnvTag != "" {
		if envTag, err = ParseEnvTag(opts.EnvTag); err != nil {
			return nil, err
		}
	}

	product := opts.Product
	if product == "" {
		if product, err = r.readReleaseFile(ProductFile); err != nil {
			return nil, errors.Wrap("resolve product name", filepath.Join(r.BuildDir, ProductFile), err)
		}
	}
	version, err := r.readReleaseFile(VersionFile)
	if err != nil {
		return nil, errors.Wrap("resolve version", filepath.Join(r.BuildDir, VersionFile), err)
	}
	release, err := r.readReleaseFile(ReleaseFile)
	if err != nil {
		return nil, errors.Wrap("resolve release", filepath.Join(r.BuildDir, ReleaseFile), err)
	}
	if _, err := semver.NewVersion(version); err != nil {
		logging.WarnContext(ctx, "version %q is not a semantic version: %v", version, err)
	}

	varsFile := filepath.Join(r.WorkDir, profile.VariablesFile)
	if _, err := os.Stat(varsFile); err != nil {
		return nil, errors.Configurationf("variables file %s for target %s is missing: %v",
			profile.VariablesFile, target, err)
	}

	defaults, err := cloud.DefaultsFor(target, arch)
	if err != nil {
		return nil, err
	}
	instanceType := defaults.InstanceType
	if opts.InstanceType != "" {
		instanceType = opts.InstanceType
	}

	branch, sha := opts.Branch, opts.BuildSHAID
	if branch == "" || sha == "" {
		headBranch, headSHA, err := r.GitHead(r.WorkDir)
		if err != nil {
			logging.DebugContext(ctx, "no git work tree information: %v", err)
		} else {
			if branch == "" {
				branch = headBranch
			}
			if sha == "" {
				sha = headSHA
			}
		}
	}

	logFile := opts.LogFile
	if logFile == "" {
		logFile = filepath.Join(r.BuildDir, fmt.Sprintf("packer-build-%s.log", target))
	}

	req := &Request{
		Product:        product,
		Version:        version,
		Release:        release,
		Target:         target,
		Arch:           arch,
		BuildMode:      mode,
		EnvTag:         envTag,
		RepoForInstall: installRepo,
		RepoForUpdate:  updateRepo,
		AMIRegions:     opts.AMIRegions,
		InstanceType:   instanceType,
		SourceImage:    defaults.SourceImage,
		SSHUser:        defaults.SSHUser,
		Region:         defaults.Region,
		Debug:          opts.Debug,
		DryRun:         opts.DryRun,
		Branch:         branch,
		BuildTag:       opts.BuildTag,
		BuildSHAID:     sha,
		LogFile:        logFile,
		VariablesFile:  varsFile,
		BuildID:        uuid.NewString(),
		BuiltBy:        r.GitAuthor(),
	}
	req.ImageName = ComposeImageName(req, r.Now())

	return req, nil
}

// resolveArch validates the requested architecture. AWS derives its
// instance type and source AMI filter from the architecture, so it has
// to be set explicitly there; other targets fall back to the host.
func (r *Resolver) resolveArch(ctx context.Context, target cloud.Target, name string) (cloud.Arch, error) {
	if name != "" {
		arch, err := cloud.ParseArch(name)
		if err != nil {
			return "", errors.Configurationf("%v", err)
		}
		return arch, nil
	}
	if target == cloud.AWS {
		return "", errors.Configurationf("architecture must be set with --arch for target aws")
	}
	arch := r.HostArch()
	logging.DebugContext(ctx, "architecture not set, defaulting to host architecture %s", arch)
	return arch, nil
}

// readReleaseFile reads a single-line collaborator file from the build
// directory and trims surrounding whitespace.
func (r *Resolver) readReleaseFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.BuildDir, name))
	if err != nil {
		return "", err
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("file %s is empty", name)
	}
	return value, nil
}

// hostArch maps the Go runtime architecture to the image architecture
// naming used by the templates.
func hostArch() cloud.Arch {
	switch runtime.GOARCH {
	case "arm64":
		return cloud.ArchAarch64
	default:
		return cloud.ArchX86_64
	}
}

func errUnsupportedValue(what, got string, supported ...string) error {
	return fmt.Errorf("unsupported %s %q (supported: %s)", what, got, strings.Join(supported, ", "))
}
