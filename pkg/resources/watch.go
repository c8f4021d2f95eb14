// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/datawire/dlib/dlog"
	"github.com/fsnotify/fsnotify"
)

// settleTime is how long Watch waits for a burst of filesystem events to quiet down before
// re-running discovery.
const settleTime = 100 * time.Millisecond

// Watch calls fn with the result of Collect, and then again every time that result changes,
// until ctx is canceled or fn returns an error.
func Watch(ctx context.Context, root string, rules []Rule, files []string, fn func([]CopyInstruction) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// The root is always watched so that resource directories that get created later are
	// noticed, as are the single files.
	if err := watcher.Add(root); err != nil {
		return err
	}

	var prev []CopyInstruction
	refresh := func() error {
		for _, rule := range rules {
			if err := watchTree(watcher, root, rule.Dir); err != nil {
				return err
			}
		}
		list, err := Collect(root, rules, files)
		if err != nil {
			return err
		}
		if list == nil {
			list = []CopyInstruction{}
		}
		if prev != nil && reflect.DeepEqual(prev, list) {
			return nil
		}
		prev = list
		return fn(list)
	}
	if err := refresh(); err != nil {
		return err
	}

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			dlog.Debugf(ctx, "resources: %v", event)
			settle = time.After(settleTime)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		case <-settle:
			settle = nil
			if err := refresh(); err != nil {
				return err
			}
		}
	}
}

// watchTree adds dir (relative to root) and every directory below it to the watcher; fsnotify is
// not recursive on its own.  If dir does not exist yet, its nearest existing ancestor is watched
// instead, so that its creation is noticed no matter how deep it is.
func watchTree(watcher *fsnotify.Watcher, root, dir string) error {
	rel, err := localDir(dir)
	if err != nil {
		return err
	}
	top := rel
	for {
		fi, err := os.Stat(filepath.Join(root, top))
		if err == nil {
			if !fi.IsDir() {
				return nil
			}
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if top == "." {
			return nil
		}
		top = filepath.Dir(top)
	}
	if top != rel {
		return watcher.Add(filepath.Join(root, top))
	}
	realDir, err := filepath.EvalSymlinks(filepath.Join(root, rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	err = filepath.WalkDir(realDir, func(filename string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return watcher.Add(filename)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
