// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package descriptor holds the packaging descriptor: what the application is called, where its
// entry point is, which resources go with it, and how the external packager should lay out the
// result.
package descriptor

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/datawire/dlib/derror"
	"sigs.k8s.io/yaml"

	"github.com/notzhong/YOLOLabelsTool/pkg/resources"
)

// Layout is the shape of the packager's output.
type Layout string

const (
	// LayoutOneDir is a directory holding the executable next to its libraries and data.
	LayoutOneDir Layout = "onedir"
	// LayoutOneFile is a single self-extracting executable.
	LayoutOneFile Layout = "onefile"
)

// DefaultFilename is the name of the descriptor file that is looked for in the project root
// when none is given explicitly.
const DefaultFilename = "yolobundle.yml"

type Descriptor struct {
	// Name is the name of the executable (and of the onedir output directory).
	Name string `json:"name"`
	// EntryPoint is the application's main script, relative to the project root.
	EntryPoint string `json:"entryPoint"`
	// Icon is relative to the project root.  It is optional: if the file is absent, the
	// executable gets the packager's default icon.
	Icon string `json:"icon,omitempty"`
	// Console is whether the executable should open a console window; false means a
	// windowed (GUI) application.
	Console bool   `json:"console"`
	Layout  Layout `json:"layout"`
	UPX     bool   `json:"upx"`

	DistDir string `json:"distDir"`
	WorkDir string `json:"workDir"`

	Resources []resources.Rule `json:"resources"`
	// ExtraFiles are single files (relative to the project root) to include if present, the
	// same way that the icon is.
	ExtraFiles []string `json:"extraFiles,omitempty"`

	HiddenImports []string `json:"hiddenImports,omitempty"`
	Excludes      []string `json:"excludes,omitempty"`
}

// Default returns the descriptor for the YOLO labels tool.
func Default() Descriptor {
	return Descriptor{
		Name:       "YoloLabelsTrainTool",
		EntryPoint: "main.py",
		Icon:       "icon.ico",
		Console:    false,
		Layout:     LayoutOneDir,
		UPX:        true,
		DistDir:    "dist",
		WorkDir:    "build",
		Resources: []resources.Rule{
			{Kind: "translations", Dir: "translations", Extensions: []string{".ini", ".qm", ".ts"}},
			{Kind: "stylesheets", Dir: "qss", Extensions: []string{".qss"}},
		},
	}
}

// Files returns the single files that are conditionally included: the icon followed by
// ExtraFiles.
func (d Descriptor) Files() []string {
	var ret []string
	if d.Icon != "" {
		ret = append(ret, d.Icon)
	}
	return append(ret, d.ExtraFiles...)
}

func isLocal(name string) bool {
	return name != "" && filepath.IsLocal(filepath.FromSlash(name))
}

// Validate checks the descriptor for mistakes, reporting all of them rather than just the first.
func (d Descriptor) Validate() error {
	var errs derror.MultiError
	if d.Name == "" {
		errs = append(errs, errors.New("name: must not be empty"))
	} else if strings.ContainsAny(d.Name, `/\`) || d.Name == "." || d.Name == ".." {
		errs = append(errs, fmt.Errorf("name: %q is not a valid file name", d.Name))
	}
	if !isLocal(d.EntryPoint) {
		errs = append(errs, fmt.Errorf("entryPoint: %q must be a path inside of the project root", d.EntryPoint))
	}
	if d.Icon != "" && !isLocal(d.Icon) {
		errs = append(errs, fmt.Errorf("icon: %q must be a path inside of the project root", d.Icon))
	}
	switch d.Layout {
	case LayoutOneDir, LayoutOneFile:
	default:
		errs = append(errs, fmt.Errorf("layout: %q is not one of %q or %q", d.Layout, LayoutOneDir, LayoutOneFile))
	}
	if d.DistDir == "" {
		errs = append(errs, errors.New("distDir: must not be empty"))
	}
	if d.WorkDir == "" {
		errs = append(errs, errors.New("workDir: must not be empty"))
	}
	if len(d.Resources) == 0 {
		errs = append(errs, errors.New("resources: must list at least one resource directory"))
	}
	for i, rule := range d.Resources {
		if !isLocal(rule.Dir) {
			errs = append(errs, fmt.Errorf("resources[%d].dir: %q must be a path inside of the project root", i, rule.Dir))
		}
		if len(rule.Extensions) == 0 {
			errs = append(errs, fmt.Errorf("resources[%d].extensions: must not be empty", i))
		}
		for j, ext := range rule.Extensions {
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 || path.Base(ext) != ext {
				errs = append(errs, fmt.Errorf("resources[%d].extensions[%d]: %q is not a file extension", i, j, ext))
			}
		}
	}
	for i, name := range d.ExtraFiles {
		if !isLocal(name) {
			errs = append(errs, fmt.Errorf("extraFiles[%d]: %q must be a path inside of the project root", i, name))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Parse reads a descriptor from YAML; fields that aren't mentioned keep their Default() value.
func Parse(yamlBytes []byte) (Descriptor, error) {
	desc := Default()
	// encoding/json decodes in to existing slice elements rather than replacing them, so the
	// default rules must not be in place while decoding.
	desc.Resources = nil
	if err := yaml.Unmarshal(yamlBytes, &desc, yaml.DisallowUnknownFields); err != nil {
		return Descriptor{}, err
	}
	if desc.Resources == nil {
		desc.Resources = Default().Resources
	}
	if err := desc.Validate(); err != nil {
		return Descriptor{}, err
	}
	return desc, nil
}

// Load reads and validates the descriptor file.
func Load(filename string) (Descriptor, error) {
	yamlBytes, err := os.ReadFile(filename)
	if err != nil {
		return Descriptor{}, err
	}
	desc, err := Parse(yamlBytes)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%s: %w", filename, err)
	}
	return desc, nil
}

// Find loads filename if it is non-empty; otherwise it loads DefaultFilename from root if that
// exists, and falls back to Default().
func Find(root, filename string) (Descriptor, error) {
	if filename != "" {
		return Load(filename)
	}
	desc, err := Load(filepath.Join(root, DefaultFilename))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return desc, err
}
