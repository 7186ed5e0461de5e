// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

// Package git resolves source revision information for image
// traceability: the branch and SHA of the enclosing work tree, and the
// operator identity from git configuration.
package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// HeadInfo returns the branch name and commit SHA of the work tree
// enclosing path. Used to default --branch and --scylla-build-sha-id
// when the flags are omitted.
func HeadInfo(path string) (branch, sha string, err error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", "", fmt.Errorf("failed to read HEAD: %w", err)
	}

	branch = ""
	if head.Name().IsBranch() {
		branch = head.Name().Short()
	}
	return branch, head.Hash().String(), nil
}
