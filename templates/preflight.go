// Copyright 2026 ScyllaDB
//
// SPDX-License-Identifier: Apache-2.0

// Package templates inspects the Packer build template before a run so
// that parameter mistakes fail fast instead of mid-build.
package templates

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/syuu1228/scylla-machine-image/errors"
)

// templateSchema covers the top-level blocks of a Packer HCL2 template
// that preflight inspects. Everything else is left to Packer itself.
var templateSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "packer"},
		{Type: "variable", LabelNames: []string{"name"}},
		{Type: "locals"},
		{Type: "source", LabelNames: []string{"type", "name"}},
		{Type: "data", LabelNames: []string{"type", "name"}},
		{Type: "build"},
	},
}

// variableSchema extracts the default attribute of a variable block.
var variableSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "default"},
		{Name: "type"},
		{Name: "description"},
	},
}

// Template is the parsed surface of a Packer template: the sources it
// can build and the variables it declares.
type Template struct {
	Path string

	// Sources maps "type.name" to presence, e.g. "amazon-ebs.image".
	Sources map[string]bool

	// Variables maps declared variable names to their default values.
	// Variables without a usable default map to cty.NilVal.
	Variables map[string]cty.Value
}

// Load parses the template at path. Both native HCL syntax and the
// JSON variant (.pkr.json) are accepted.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Configurationf("template %s cannot be read: %v", path, err)
	}

	parser := hclparse.NewParser()
	var file *hcl.File
	var diags hcl.Diagnostics
	if strings.HasSuffix(path, ".json") {
		file, diags = parser.ParseJSON(data, path)
	} else {
		file, diags = parser.ParseHCL(data, path)
	}
	if diags.HasErrors() {
		return nil, errors.Configurationf("template %s is malformed: %s", path, diags.Error())
	}

	content, _, diags := file.Body.PartialContent(templateSchema)
	if diags.HasErrors() {
		return nil, errors.Configurationf("template %s has an unexpected structure: %s", path, diags.Error())
	}

	tmpl := &Template{
		Path:      path,
		Sources:   make(map[string]bool),
		Variables: make(map[string]cty.Value),
	}

	for _, block := range content.Blocks {
		switch block.Type {
		case "source":
			tmpl.Sources[block.Labels[0]+"."+block.Labels[1]] = true
		case "variable":
			tmpl.Variables[block.Labels[0]] = variableDefault(block)
		}
	}

	return tmpl, nil
}

// variableDefault evaluates a variable block's default expression.
// Defaults referencing other variables or functions are not resolvable
// at preflight time and yield cty.NilVal.
func variableDefault(block *hcl.Block) cty.Value {
	content, _, diags := block.Body.PartialContent(variableSchema)
	if diags.HasErrors() {
		return cty.NilVal
	}
	attr, ok := content.Attributes["default"]
	if !ok {
		return cty.NilVal
	}
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal
	}
	if converted, err := convert.Convert(val, cty.String); err == nil {
		return converted
	}
	return val
}

// CheckSource verifies the template declares the source the build will
// be restricted to with -only.
func (t *Template) CheckSource(sourceName string) error {
	if t.Sources[sourceName] {
		return nil
	}
	declared := make([]string, 0, len(t.Sources))
	for name := range t.Sources {
		declared = append(declared, name)
	}
	return errors.Configurationf("template %s has no source %q (declared: %s)",
		t.Path, sourceName, strings.Join(declared, ", "))
}

// CheckVariables verifies every variable the run passes with -var is
// declared by the template. Packer aborts on undeclared variables, so
// catching them here turns a mid-run failure into a usage message.
func (t *Template) CheckVariables(keys []string) error {
	var missing []string
	for _, key := range keys {
		if _, ok := t.Variables[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return errors.Configurationf("template %s does not declare variables: %s",
			t.Path, strings.Join(missing, ", "))
	}
	return nil
}

// DescribeDefaults renders the declared variable defaults for debug
// logging.
func (t *Template) DescribeDefaults() string {
	var b strings.Builder
	for name, val := range t.Variables {
		if val == cty.NilVal || !val.IsKnown() || val.Type() != cty.String {
			continue
		}
		fmt.Fprintf(&b, "%s=%s ", name, val.AsString())
	}
	return strings.TrimSpace(b.String())
}
