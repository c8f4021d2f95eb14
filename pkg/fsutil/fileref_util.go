// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"io"
	"io/fs"
	"os"
	"path"
	"time"
)

// OSFileReference is a file on the host filesystem that is to be stored under a different name.
type OSFileReference struct {
	fs.FileInfo
	MFullName string
	Path      string
}

// NewOSFileReference stats filename (following symlinks) so that it can be stored as fullname.
func NewOSFileReference(filename, fullname string) (*OSFileReference, error) {
	fi, err := os.Stat(filename)
	if err != nil {
		return nil, err
	}
	return &OSFileReference{
		FileInfo:  fi,
		MFullName: fullname,
		Path:      filename,
	}, nil
}

func (fr *OSFileReference) FullName() string { return fr.MFullName }
func (fr *OSFileReference) Name() string     { return path.Base(fr.MFullName) }
func (fr *OSFileReference) Open() (io.ReadCloser, error) {
	return os.Open(fr.Path)
}

// DirReference is a synthesized directory entry; it has no backing file.
type DirReference struct {
	MFullName string
	MMode     fs.FileMode
	MModTime  time.Time
}

func (dr *DirReference) FullName() string   { return dr.MFullName }
func (dr *DirReference) Name() string       { return path.Base(dr.MFullName) }
func (dr *DirReference) Size() int64        { return 0 }
func (dr *DirReference) Mode() fs.FileMode  { return fs.ModeDir | dr.MMode.Perm() }
func (dr *DirReference) ModTime() time.Time { return dr.MModTime }
func (dr *DirReference) IsDir() bool        { return true }
func (dr *DirReference) Sys() interface{}   { return nil }
func (dr *DirReference) Open() (io.ReadCloser, error) {
	return nil, &fs.PathError{Op: "open", Path: dr.MFullName, Err: fs.ErrInvalid}
}

var (
	_ FileReference = (*OSFileReference)(nil)
	_ FileReference = (*DirReference)(nil)
)
