// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package bundle ties a packaging descriptor to a project tree: it resolves the descriptor's
// resource rules against the tree, and turns the result in to layers.
package bundle

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/datawire/dlib/dlog"

	"github.com/notzhong/YOLOLabelsTool/pkg/descriptor"
	"github.com/notzhong/YOLOLabelsTool/pkg/resources"
)

// A Plan is a descriptor that has been resolved against a project root.
type Plan struct {
	Root       string
	Descriptor descriptor.Descriptor

	// Data is every file to embed, icon included.
	Data []resources.CopyInstruction
	// Icon is the member of Data that is the executable's icon, or nil if the icon file is
	// absent.
	Icon *resources.CopyInstruction
}

// NewPlan discovers the resources that desc names under root.
func NewPlan(ctx context.Context, root string, desc descriptor.Descriptor) (*Plan, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	data, err := resources.Collect(root, desc.Resources, desc.Files())
	if err != nil {
		return nil, err
	}
	if conflicts := resources.Conflicts(data); len(conflicts) > 0 {
		return nil, fmt.Errorf("several files would be placed at the same location in the bundle: %s",
			strings.Join(conflicts, ", "))
	}
	plan := &Plan{
		Root:       root,
		Descriptor: desc,
		Data:       data,
	}
	if desc.Icon != "" {
		iconPath := filepath.Join(root, filepath.FromSlash(desc.Icon))
		for i := range plan.Data {
			if plan.Data[i].Source == iconPath {
				plan.Icon = &plan.Data[i]
				break
			}
		}
		if plan.Icon == nil {
			dlog.Warnf(ctx, "icon %q not found; the executable will have the default icon", desc.Icon)
		}
	}
	dlog.Infof(ctx, "discovered %d data files for %s", len(plan.Data), desc.Name)
	return plan, nil
}

// EntryPoint is the absolute path of the application's main script.
func (p *Plan) EntryPoint() string {
	return filepath.Join(p.Root, filepath.FromSlash(p.Descriptor.EntryPoint))
}
