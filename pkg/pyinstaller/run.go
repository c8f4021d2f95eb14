// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pyinstaller

import (
	"context"
	"errors"
	"os"

	"github.com/datawire/dlib/dexec"

	"github.com/notzhong/YOLOLabelsTool/pkg/descriptor"
)

// DefaultBinary is the PyInstaller executable that is used if none is specified.
const DefaultBinary = "pyinstaller"

// Command returns the argv that builds specfile according to desc.
func Command(desc descriptor.Descriptor, specfile, bin string) []string {
	if bin == "" {
		bin = DefaultBinary
	}
	return []string{
		bin,
		"--noconfirm",
		"--distpath", desc.DistDir,
		"--workpath", desc.WorkDir,
		specfile,
	}
}

// Run runs argv in the directory dir.  The packager's own output goes to stderr, so that stdout
// stays free for whatever the caller writes there.
func Run(ctx context.Context, dir string, argv []string) error {
	if len(argv) == 0 {
		return errors.New("pyinstaller: empty command")
	}
	cmd := dexec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
