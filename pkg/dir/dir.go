// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package dir deals with creating a layer from a directory, such as the output directory of the
// external packager.
package dir

import (
	"archive/tar"
	"bytes"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	ociv1 "github.com/google/go-containerregistry/pkg/v1"
	ociv1tarball "github.com/google/go-containerregistry/pkg/v1/tarball"

	"github.com/notzhong/YOLOLabelsTool/pkg/fsutil"
)

type Options struct {
	// Prefix is prepended to every name in the layer; it should be forward-slash separated
	// and should NOT start with a slash.  For example, "opt/YoloLabelsTrainTool".
	Prefix string
	// PrefixMode is the permission bits for the directories that make up Prefix; 0o755 if
	// unset.
	PrefixMode fs.FileMode
	// Owner is recorded for every entry; nil means uid=gid=0 with no names.
	Owner *fsutil.Ownership
	// ClampTime is the latest timestamp that may appear in the layer; zero means no clamping.
	ClampTime time.Time
}

func (o Options) prefixDirs() []string {
	prefix := path.Clean(strings.TrimPrefix(o.Prefix, "/"))
	var dirs []string
	for dir := prefix; dir != "." && dir != "/"; dir = path.Dir(dir) {
		dirs = append(dirs, dir)
	}
	// outermost first
	for i, j := 0, len(dirs)-1; i < j; i, j = i+1, j-1 {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}
	return dirs
}

// LayerFromDir creates a layer from the contents of the directory dirname (not including the
// directory itself).  Hardlinks within the directory are preserved as hardlinks; symlinks are
// stored as symlinks.
func LayerFromDir(dirname string, o Options, opts ...ociv1tarball.LayerOption) (ociv1.Layer, error) {
	type logEntry struct {
		Name string
		Info fs.FileInfo
	}

	var byteWriter bytes.Buffer
	tarWriter := tar.NewWriter(&byteWriter)

	var log []logEntry

	prefixMode := o.PrefixMode
	if prefixMode == 0 {
		prefixMode = 0o755
	}
	prefixDirs := o.prefixDirs()
	for _, dir := range prefixDirs {
		header := &tar.Header{
			Name:     dir,
			Typeflag: tar.TypeDir,
			Mode:     int64(prefixMode.Perm()),
			ModTime:  o.ClampTime,
		}
		fsutil.NormalizeHeader(header, o.Owner, o.ClampTime)
		if err := tarWriter.WriteHeader(header); err != nil {
			return nil, err
		}
	}
	prefix := "."
	if len(prefixDirs) > 0 {
		prefix = prefixDirs[len(prefixDirs)-1]
	}

	err := filepath.WalkDir(dirname, func(filename string, d fs.DirEntry, e error) error {
		if e != nil {
			return e
		}
		name, err := filepath.Rel(dirname, filename)
		if err != nil {
			return err
		}
		if name == "." {
			return nil
		}
		name = path.Join(prefix, filepath.ToSlash(name))
		info, err := d.Info()
		if err != nil {
			return err
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = name
		if info.Mode().IsRegular() {
			for _, entry := range log {
				if os.SameFile(entry.Info, info) {
					header.Typeflag = tar.TypeLink
					header.Linkname = entry.Name
					header.Size = 0
					break
				}
			}
		}
		if header.Typeflag == tar.TypeSymlink {
			header.Linkname, err = os.Readlink(filename)
			if err != nil {
				return err
			}
		}
		fsutil.NormalizeHeader(header, o.Owner, o.ClampTime)
		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		log = append(log, logEntry{
			Name: name,
			Info: info,
		})

		if header.Typeflag == tar.TypeReg {
			reader, err := os.Open(filename)
			if err != nil {
				return err
			}
			if _, err := io.Copy(tarWriter, reader); err != nil {
				_ = reader.Close()
				return err
			}
			if err := reader.Close(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := tarWriter.Close(); err != nil {
		return nil, err
	}

	byteSlice := byteWriter.Bytes()
	return ociv1tarball.LayerFromOpener(func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(byteSlice)), nil
	}, opts...)
}
