// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Author returns the operator identity from ~/.gitconfig in the form
// "Name <email>", "Name", or "email". Returns an empty string when no
// configuration can be read; the caller treats the identity as
// best-effort metadata.
func Author() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	cfg, err := ini.Load(filepath.Join(home, ".gitconfig"))
	if err != nil {
		return ""
	}

	user := cfg.Section("user")
	return formatAuthor(user.Key("name").String(), user.Key("email").String())
}

// formatAuthor combines name and email into a single identity string.
func formatAuthor(name, email string) string {
	switch {
	case name != "" && email != "":
		return name + " <" + email + ">"
	case name != "":
		return name
	default:
		return email
	}
}
