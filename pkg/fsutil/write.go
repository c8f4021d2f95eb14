// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"io"
	"os"

	ociv1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/renameio/v2"
)

func WriteLayer(layer ociv1.Layer, dst io.Writer) (err error) {
	layerReader, err := layer.Uncompressed()
	if err != nil {
		return err
	}
	defer func() {
		if _err := layerReader.Close(); _err != nil && err == nil {
			err = _err
		}
	}()
	if _, err := io.Copy(dst, layerReader); err != nil {
		return err
	}
	return nil
}

// WriteOutput calls fn with a writer for filename, or for stdout if filename is "" or "-".
// Files are replaced atomically: either fn succeeds and the whole new file appears, or the old
// file (if any) is left alone.
func WriteOutput(filename string, perm os.FileMode, fn func(io.Writer) error) (err error) {
	if filename == "" || filename == "-" {
		return fn(os.Stdout)
	}
	pending, err := renameio.NewPendingFile(filename, renameio.WithPermissions(perm))
	if err != nil {
		return err
	}
	defer func() {
		if _err := pending.Cleanup(); _err != nil && err == nil {
			err = _err
		}
	}()
	if err := fn(pending); err != nil {
		return err
	}
	return pending.CloseAtomicallyReplace()
}
