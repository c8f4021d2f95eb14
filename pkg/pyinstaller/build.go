// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pyinstaller

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/datawire/dlib/dlog"
	ociv1 "github.com/google/go-containerregistry/pkg/v1"
	ociv1tarball "github.com/google/go-containerregistry/pkg/v1/tarball"

	"github.com/notzhong/YOLOLabelsTool/pkg/bundle"
	"github.com/notzhong/YOLOLabelsTool/pkg/descriptor"
	"github.com/notzhong/YOLOLabelsTool/pkg/dir"
	"github.com/notzhong/YOLOLabelsTool/pkg/fsutil"
)

// WriteSpec renders plan to the file specfile.
func WriteSpec(plan *bundle.Plan, specfile string) error {
	return fsutil.WriteOutput(specfile, 0o644, func(w io.Writer) error {
		return Render(w, plan, filepath.Dir(specfile))
	})
}

// OutputDir is where PyInstaller puts the result of building desc, relative to the directory
// that it is run in.
func OutputDir(desc descriptor.Descriptor) string {
	if desc.Layout == descriptor.LayoutOneFile {
		return desc.DistDir
	}
	return filepath.Join(desc.DistDir, desc.Name)
}

// LayerFromBuild runs PyInstaller on plan in a scratch directory, and turns its output in to a
// layer with everything under prefix.  The plan's own DistDir and WorkDir are not touched.
func LayerFromBuild(
	ctx context.Context,
	plan *bundle.Plan,
	bin string,
	prefix string,
	owner *fsutil.Ownership,
	clampTime time.Time,
	opts ...ociv1tarball.LayerOption,
) (_ ociv1.Layer, err error) {
	maybeSetErr := func(_err error) {
		if _err != nil && err == nil {
			err = _err
		}
	}

	tmpdir, err := os.MkdirTemp("", "yolobundle-pyinstaller.")
	if err != nil {
		return nil, err
	}
	defer func() {
		maybeSetErr(os.RemoveAll(tmpdir))
	}()

	desc := plan.Descriptor
	desc.DistDir = filepath.Join(tmpdir, "dist")
	desc.WorkDir = filepath.Join(tmpdir, "build")

	specfile := filepath.Join(tmpdir, desc.Name+".spec")
	if err := WriteSpec(plan, specfile); err != nil {
		return nil, err
	}
	argv := Command(desc, specfile, bin)
	dlog.Infof(ctx, "running %q", argv)
	if err := Run(ctx, plan.Root, argv); err != nil {
		return nil, err
	}

	return dir.LayerFromDir(OutputDir(desc), dir.Options{
		Prefix:    prefix,
		Owner:     owner,
		ClampTime: clampTime,
	}, opts...)
}
