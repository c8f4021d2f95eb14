// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package fsutil holds the filesystem and tarball plumbing shared by the layer builders.
package fsutil

import (
	"archive/tar"
	"bytes"
	"io"
	"io/fs"
	"sort"
	"strings"
	"time"

	ociv1 "github.com/google/go-containerregistry/pkg/v1"
	ociv1tarball "github.com/google/go-containerregistry/pkg/v1/tarball"

	"github.com/notzhong/YOLOLabelsTool/pkg/reproducible"
)

type FileReference interface {
	fs.FileInfo

	// FullName should follow io/fs rules: it should use forward-slashes, and it should be an
	// absolute path but without the leading "/".
	FullName() string

	Open() (io.ReadCloser, error)
}

// Ownership is what gets recorded as the owner of every file in a layer.
type Ownership struct {
	UID   int
	UName string

	GID   int
	GName string
}

// ComparePaths does a part-wise comparison of two forward-slash paths, rather than a simple
// string compare, because "-" < "/" < EOF.  It returns -1, 0, or 1.
func ComparePaths(a, b string) int {
	aParts := strings.Split(a, "/")
	bParts := strings.Split(b, "/")
	for idx := 0; idx < len(aParts) || idx < len(bParts); idx++ {
		var aPart, bPart string
		if idx < len(aParts) {
			aPart = aParts[idx]
		}
		if idx < len(bParts) {
			bPart = bParts[idx]
		}
		if aPart != bPart {
			if aPart < bPart {
				return -1
			}
			return 1
		}
	}
	return 0
}

// NormalizeHeader makes a header independent of the host that it was generated on: ownership is
// set to owner (or zeroed if owner is nil), the modification time is clamped to clampTime and
// truncated to whole seconds, and the access and change times are dropped.
//
// Dropping atime and ctime also keeps the entry in plain USTAR format; either of them would
// force a PAX record.
func NormalizeHeader(header *tar.Header, owner *Ownership, clampTime time.Time) {
	if owner == nil {
		owner = &Ownership{}
	}
	header.Uid = owner.UID
	header.Uname = owner.UName
	header.Gid = owner.GID
	header.Gname = owner.GName

	header.ModTime = reproducible.Clamp(header.ModTime, clampTime).Truncate(time.Second)
	header.AccessTime = time.Time{}
	header.ChangeTime = time.Time{}
}

// LayerFromFileReferences writes the files in to a layer, sorted by name.
func LayerFromFileReferences(
	vfs []FileReference,
	owner *Ownership,
	clampTime time.Time,
	opts ...ociv1tarball.LayerOption,
) (ociv1.Layer, error) {
	sort.SliceStable(vfs, func(i, j int) bool {
		return ComparePaths(vfs[i].FullName(), vfs[j].FullName()) < 0
	})

	var byteWriter bytes.Buffer
	tarWriter := tar.NewWriter(&byteWriter)

	for _, file := range vfs {
		header, err := tar.FileInfoHeader(file, "")
		if err != nil {
			return nil, err
		}
		header.Name = file.FullName()
		NormalizeHeader(header, owner, clampTime)
		if err := tarWriter.WriteHeader(header); err != nil {
			return nil, err
		}
		if header.Typeflag == tar.TypeReg {
			reader, err := file.Open()
			if err != nil {
				return nil, err
			}
			if _, err := io.Copy(tarWriter, reader); err != nil {
				_ = reader.Close()
				return nil, err
			}
			if err := reader.Close(); err != nil {
				return nil, err
			}
		}
	}

	if err := tarWriter.Close(); err != nil {
		return nil, err
	}

	byteSlice := byteWriter.Bytes()
	return ociv1tarball.LayerFromOpener(func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(byteSlice)), nil
	}, opts...)
}
