// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/syuu1228/scylla-machine-image/cloud"
)

// nameTimestampLayout gives image names second resolution without
// characters the cloud catalogs reject.
const nameTimestampLayout = "20060102-150405"

// ComposeImageName derives the image name from the request and the
// given timestamp. The name is purely derived state: product (or the
// target's fixed product literal), version, architecture, a debug
// marker when the build mode is debug, and the timestamp. A "debug-"
// prefix is added when the debug flag is set, independently of the
// build mode.
func ComposeImageName(req *Request, now time.Time) string {
	product := req.Product
	if profile, ok := cloud.ProfileFor(req.Target); ok && profile.ProductOverride != "" {
		product = profile.ProductOverride
	}

	parts := []string{product, req.Version, string(req.Arch)}
	if req.BuildMode == ModeDebug {
		parts = append(parts, "debug")
	}
	parts = append(parts, now.UTC().Format(nameTimestampLayout))

	name := strings.Join(parts, "-")
	if req.Debug {
		name = "debug-" + name
	}

	// GCE image names must satisfy RFC1035: lowercase, digits, and
	// dashes only. Version strings carry dots, so slug the whole name.
	if req.Target == cloud.GCE {
		name = slug.Make(name)
	}

	return name
}
