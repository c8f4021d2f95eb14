// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package collect places data files in to an output directory, the way that the external
// packager's COLLECT step does for the files that it is handed.
package collect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/datawire/dlib/dlog"
	"github.com/google/renameio/v2"

	"github.com/notzhong/YOLOLabelsTool/pkg/reproducible"
	"github.com/notzhong/YOLOLabelsTool/pkg/resources"
)

// Collect copies every file in list to outDir/Dest/basename, creating directories as needed.
// Each file is written atomically and keeps its permission bits; its modification time is
// clamped to clampTime.  It returns the number of files written.
func Collect(ctx context.Context, list []resources.CopyInstruction, outDir string, clampTime time.Time) (int, error) {
	if conflicts := resources.Conflicts(list); len(conflicts) > 0 {
		return 0, fmt.Errorf("several files would be written to the same location: %s",
			strings.Join(conflicts, ", "))
	}
	n := 0
	for _, ci := range list {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		dst := filepath.Join(outDir, filepath.FromSlash(ci.FullName()))
		if err := copyFile(ci.Source, dst, clampTime); err != nil {
			return n, err
		}
		dlog.Debugf(ctx, "collect: %s -> %s", ci.Source, dst)
		n++
	}
	return n, nil
}

func copyFile(src, dst string, clampTime time.Time) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := renameio.WriteFile(dst, content, info.Mode().Perm()); err != nil {
		return err
	}
	mtime := reproducible.Clamp(info.ModTime(), clampTime)
	return os.Chtimes(dst, mtime, mtime)
}
