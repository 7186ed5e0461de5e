// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

// Package main implements the build-image CLI: it resolves release and
// target-cloud parameters into one Packer invocation and verifies the
// build log afterwards.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
