// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package resources discovers the data files that need to ride along with the application
// executable, and turns them in to copy instructions.
package resources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/notzhong/YOLOLabelsTool/pkg/fsutil"
)

// A CopyInstruction says that the file at Source should be placed in the directory Dest of the
// bundle.
type CopyInstruction struct {
	// Source is the file's path on the build host, as found (that is: the project root joined
	// with the file's relative path).
	Source string `json:"source"`
	// Dest is forward-slash separated, relative to the bundle root, and is "." for files that
	// go in the bundle root itself.
	Dest string `json:"dest"`
}

// FullName is the forward-slash path that the file will have inside of the bundle.
func (ci CopyInstruction) FullName() string {
	return path.Join(ci.Dest, filepath.Base(ci.Source))
}

// A Rule describes one kind of resource: every file under Dir whose name ends in one of
// Extensions.
type Rule struct {
	Kind       string   `json:"kind,omitempty"`
	Dir        string   `json:"dir"`
	Extensions []string `json:"extensions"`
}

// Matches returns whether a file named name is selected by the rule.  The match is a
// case-sensitive suffix match.
func (r Rule) Matches(name string) bool {
	for _, ext := range r.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func (r Rule) String() string {
	if r.Kind != "" {
		return r.Kind
	}
	return r.Dir
}

// localDir cleans a root-relative directory name, refusing anything that would point outside of
// the root.
func localDir(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if !filepath.IsLocal(clean) && clean != "." {
		return "", fmt.Errorf("resource path %q is not inside of the project root", name)
	}
	return clean, nil
}

func isRegular(filename string, d fs.DirEntry) (bool, error) {
	if d.Type().IsRegular() {
		return true, nil
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}
	fi, err := os.Stat(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// dangling symlink
			return false, nil
		}
		return false, err
	}
	return fi.Mode().IsRegular(), nil
}

// Discover walks the directory of each rule (relative to root) and returns one CopyInstruction
// per matching file, with Dest set to the directory of that file relative to root.
//
// A rule whose directory does not exist (or is not a directory) contributes nothing; that is not
// an error.  Any other filesystem error is returned.  Symlinks to files are followed, as is a
// symlink that is the rule's directory itself; symlinks to directories further down are not.
func Discover(root string, rules []Rule) ([]CopyInstruction, error) {
	var ret []CopyInstruction
	for _, rule := range rules {
		rel, err := localDir(rule.Dir)
		if err != nil {
			return nil, err
		}
		dir := filepath.Join(root, rel)
		fi, err := os.Stat(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("discovering %s resources: %w", rule, err)
		}
		if !fi.IsDir() {
			continue
		}
		// WalkDir does not follow a symlink at the top, but the application does, so walk the
		// resolved directory and name things by where they were found.
		realDir, err := filepath.EvalSymlinks(dir)
		if err != nil {
			return nil, fmt.Errorf("discovering %s resources: %w", rule, err)
		}
		err = filepath.WalkDir(realDir, func(filename string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !rule.Matches(d.Name()) {
				return nil
			}
			if ok, err := isRegular(filename, d); err != nil || !ok {
				return err
			}
			sub, err := filepath.Rel(realDir, filename)
			if err != nil {
				return err
			}
			source := filepath.Join(dir, sub)
			dest, err := filepath.Rel(root, filepath.Dir(source))
			if err != nil {
				return err
			}
			ret = append(ret, CopyInstruction{
				Source: source,
				Dest:   filepath.ToSlash(dest),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discovering %s resources: %w", rule, err)
		}
	}
	return ret, nil
}

// IncludeFile returns a CopyInstruction for the file name (relative to root) if it exists and is
// a regular file, or nil if it does not exist.
func IncludeFile(root, name string) (*CopyInstruction, error) {
	rel, err := localDir(name)
	if err != nil {
		return nil, err
	}
	filename := filepath.Join(root, rel)
	fi, err := os.Stat(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, &fs.PathError{
			Op:   "include",
			Path: filename,
			Err:  errors.New("not a regular file"),
		}
	}
	return &CopyInstruction{
		Source: filename,
		Dest:   filepath.ToSlash(filepath.Dir(rel)),
	}, nil
}

// Collect runs Discover for the rules and IncludeFile for each of the files, and returns the
// combined list with duplicates removed, in a stable order.
func Collect(root string, rules []Rule, files []string) ([]CopyInstruction, error) {
	ret, err := Discover(root, rules)
	if err != nil {
		return nil, err
	}
	for _, name := range files {
		ci, err := IncludeFile(root, name)
		if err != nil {
			return nil, err
		}
		if ci != nil {
			ret = append(ret, *ci)
		}
	}
	return Normalize(ret), nil
}

// Normalize sorts a list of instructions by their in-bundle name (then by source), and drops
// exact duplicates.
func Normalize(list []CopyInstruction) []CopyInstruction {
	sort.SliceStable(list, func(i, j int) bool {
		if c := fsutil.ComparePaths(list[i].FullName(), list[j].FullName()); c != 0 {
			return c < 0
		}
		return list[i].Source < list[j].Source
	})
	ret := list[:0]
	for _, ci := range list {
		if len(ret) > 0 && ci == ret[len(ret)-1] {
			continue
		}
		ret = append(ret, ci)
	}
	return ret
}

// Conflicts returns the in-bundle names that more than one instruction (with differing sources)
// would write to.
func Conflicts(list []CopyInstruction) []string {
	seen := make(map[string]string, len(list))
	var ret []string
	for _, ci := range list {
		name := ci.FullName()
		if src, ok := seen[name]; ok {
			if src != ci.Source {
				ret = append(ret, name)
			}
			continue
		}
		seen[name] = ci.Source
	}
	return ret
}
