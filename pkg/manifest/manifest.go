// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package manifest records exactly which data files went in to a bundle, with their digests, so
// that two builds can be compared.
package manifest

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	ociv1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/renameio/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/notzhong/YOLOLabelsTool/pkg/resources"
)

type Entry struct {
	Source string `yaml:"source" json:"source"`
	Dest   string `yaml:"dest" json:"dest"`
	Size   int64  `yaml:"size" json:"size"`
	// Digest is "sha256:" followed by the hex digest of the content.
	Digest string `yaml:"digest" json:"digest"`
}

type Manifest struct {
	Name    string  `yaml:"name" json:"name"`
	Entries []Entry `yaml:"entries" json:"entries"`
}

// Build hashes every source file.  Hashing happens in parallel, but the entries come back in the
// same order as list.
func Build(ctx context.Context, name string, list []resources.CopyInstruction) (*Manifest, error) {
	entries := make([]Entry, len(list))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(runtime.GOMAXPROCS(0))
	for i := range list {
		i := i
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			digest, size, err := hashFile(list[i].Source)
			if err != nil {
				return err
			}
			entries[i] = Entry{
				Source: list[i].Source,
				Dest:   list[i].Dest,
				Size:   size,
				Digest: digest.String(),
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return &Manifest{
		Name:    name,
		Entries: entries,
	}, nil
}

func hashFile(filename string) (ociv1.Hash, int64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return ociv1.Hash{}, 0, err
	}
	defer file.Close()
	digest, size, err := ociv1.SHA256(file)
	if err != nil {
		return ociv1.Hash{}, 0, fmt.Errorf("hashing %s: %w", filename, err)
	}
	return digest, size, nil
}

// Encode writes the manifest as YAML.
func (m *Manifest) Encode(w io.Writer) error {
	bs, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	_, err = w.Write(bs)
	return err
}

// Write stores the manifest as a YAML file, atomically.
func (m *Manifest) Write(filename string) error {
	bs, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return renameio.WriteFile(filename, bs, 0o644)
}

// Read loads a manifest that was stored with Write.
func Read(filename string) (*Manifest, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.UnmarshalStrict(bs, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	for i := range m.Entries {
		if _, err := ociv1.NewHash(m.Entries[i].Digest); err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", filename, i, err)
		}
	}
	return &m, nil
}

// Diff returns the in-bundle names that were added, removed, or changed going from old to new.
func Diff(old, new *Manifest) (added, removed, changed []string) {
	index := func(m *Manifest) map[string]Entry {
		ret := make(map[string]Entry, len(m.Entries))
		for _, entry := range m.Entries {
			ci := resources.CopyInstruction{Source: entry.Source, Dest: entry.Dest}
			ret[ci.FullName()] = entry
		}
		return ret
	}
	oldIdx, newIdx := index(old), index(new)
	for _, entry := range new.Entries {
		name := resources.CopyInstruction{Source: entry.Source, Dest: entry.Dest}.FullName()
		prev, ok := oldIdx[name]
		switch {
		case !ok:
			added = append(added, name)
		case prev.Digest != entry.Digest:
			changed = append(changed, name)
		}
	}
	for _, entry := range old.Entries {
		name := resources.CopyInstruction{Source: entry.Source, Dest: entry.Dest}.FullName()
		if _, ok := newIdx[name]; !ok {
			removed = append(removed, name)
		}
	}
	return added, removed, changed
}
