// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"path"
	"strings"
	"time"

	ociv1 "github.com/google/go-containerregistry/pkg/v1"
	ociv1tarball "github.com/google/go-containerregistry/pkg/v1/tarball"

	"github.com/notzhong/YOLOLabelsTool/pkg/fsutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/resources"
)

// LayerFromInstructions creates a layer holding each file at prefix/Dest/basename.  Every parent
// directory (including those of prefix) gets an entry of its own.  prefix should be forward-slash
// separated and should NOT start with a slash; it may be "" or ".".
func LayerFromInstructions(
	list []resources.CopyInstruction,
	prefix string,
	owner *fsutil.Ownership,
	clampTime time.Time,
	opts ...ociv1tarball.LayerOption,
) (ociv1.Layer, error) {
	prefix = path.Clean(strings.TrimPrefix(prefix, "/"))

	dirs := make(map[string]struct{})
	addDirs := func(dir string) {
		for ; dir != "." && dir != "/"; dir = path.Dir(dir) {
			dirs[dir] = struct{}{}
		}
	}
	addDirs(prefix)

	vfs := make([]fsutil.FileReference, 0, len(list))
	for _, ci := range list {
		fullname := path.Join(prefix, ci.FullName())
		addDirs(path.Dir(fullname))
		ref, err := fsutil.NewOSFileReference(ci.Source, fullname)
		if err != nil {
			return nil, err
		}
		vfs = append(vfs, ref)
	}
	for dir := range dirs {
		vfs = append(vfs, &fsutil.DirReference{
			MFullName: dir,
			MMode:     0o755,
			MModTime:  clampTime,
		})
	}

	return fsutil.LayerFromFileReferences(vfs, owner, clampTime, opts...)
}

// Layer is LayerFromInstructions for the plan's data files.
func (p *Plan) Layer(prefix string, owner *fsutil.Ownership, clampTime time.Time, opts ...ociv1tarball.LayerOption) (ociv1.Layer, error) {
	return LayerFromInstructions(p.Data, prefix, owner, clampTime, opts...)
}
