package resources_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notzhong/YOLOLabelsTool/pkg/resources"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		filename := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filename), 0o755))
		require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
	}
}

var defaultRules = []resources.Rule{
	{Kind: "translations", Dir: "translations", Extensions: []string{".ini", ".qm"}},
	{Kind: "stylesheets", Dir: "qss", Extensions: []string{".qss"}},
}

func TestDiscover(t *testing.T) {
	t.Parallel()
	type testcase struct {
		Files  map[string]string
		Output []resources.CopyInstruction
	}
	testcases := map[string]testcase{
		"empty-root": {
			Files:  nil,
			Output: nil,
		},
		"flat": {
			Files: map[string]string{
				"translations/zh_CN.ini": "",
				"translations/en_US.ini": "",
				"qss/dark_theme.qss":     "",
				"main.py":                "",
			},
			Output: []resources.CopyInstruction{
				{Source: "translations/en_US.ini", Dest: "translations"},
				{Source: "translations/zh_CN.ini", Dest: "translations"},
				{Source: "qss/dark_theme.qss", Dest: "qss"},
			},
		},
		"nested-keeps-relative-dir": {
			Files: map[string]string{
				"qss/themes/extra/light.qss": "",
			},
			Output: []resources.CopyInstruction{
				{Source: "qss/themes/extra/light.qss", Dest: "qss/themes/extra"},
			},
		},
		"extension-filter": {
			Files: map[string]string{
				"translations/README.md": "",
				"translations/en_US.INI": "",
				"translations/en_US.ts":  "",
				"qss/notes.qss.bak":      "",
				"translations/app.qm":    "",
			},
			Output: []resources.CopyInstruction{
				{Source: "translations/app.qm", Dest: "translations"},
			},
		},
		"dir-is-a-file": {
			Files: map[string]string{
				"qss": "not a directory",
			},
			Output: nil,
		},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			writeTree(t, root, tcData.Files)

			actual, err := resources.Discover(root, defaultRules)
			require.NoError(t, err)

			var expected []resources.CopyInstruction
			for _, ci := range tcData.Output {
				expected = append(expected, resources.CopyInstruction{
					Source: filepath.Join(root, filepath.FromSlash(ci.Source)),
					Dest:   ci.Dest,
				})
			}
			assert.ElementsMatch(t, expected, actual)
		})
	}
}

func TestDiscoverRejectsEscapes(t *testing.T) {
	t.Parallel()
	_, err := resources.Discover(t.TempDir(), []resources.Rule{
		{Dir: "../outside", Extensions: []string{".ini"}},
	})
	assert.Error(t, err)
}

func TestDiscoverSymlinks(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("test needs symlinks")
	}
	root := t.TempDir()
	shared := t.TempDir()
	writeTree(t, shared, map[string]string{
		"translations/zh_CN.ini":     "[translations]\n",
		"translations/old/en_US.ini": "[translations]\n",
		"themes/dark.qss":            "QWidget {}\n",
	})
	writeTree(t, root, map[string]string{
		"qss/light_theme.qss": "QWidget {}\n",
		"extra/more.ini":      "[translations]\n",
	})
	// the rule directory itself
	require.NoError(t, os.Symlink(filepath.Join(shared, "translations"), filepath.Join(root, "translations")))
	// a single file
	require.NoError(t, os.Symlink(filepath.Join(shared, "themes", "dark.qss"), filepath.Join(root, "qss", "dark_theme.qss")))
	// a dangling file
	require.NoError(t, os.Symlink(filepath.Join(shared, "nonexistent.qss"), filepath.Join(root, "qss", "blue_theme.qss")))
	// a directory below the rule directory
	require.NoError(t, os.Symlink(filepath.Join(root, "extra"), filepath.Join(root, "translations", "extra")))

	actual, err := resources.Discover(root, defaultRules)
	require.NoError(t, err)

	j := func(name string) string { return filepath.Join(root, filepath.FromSlash(name)) }
	assert.ElementsMatch(t, []resources.CopyInstruction{
		{Source: j("translations/zh_CN.ini"), Dest: "translations"},
		{Source: j("translations/old/en_US.ini"), Dest: "translations/old"},
		{Source: j("qss/dark_theme.qss"), Dest: "qss"},
		{Source: j("qss/light_theme.qss"), Dest: "qss"},
	}, actual)
}

func TestIncludeFile(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	ci, err := resources.IncludeFile(root, "icon.ico")
	require.NoError(t, err)
	assert.Nil(t, ci, "absent file must not be included")

	writeTree(t, root, map[string]string{"icon.ico": "ICO"})
	ci, err = resources.IncludeFile(root, "icon.ico")
	require.NoError(t, err)
	require.NotNil(t, ci)
	assert.Equal(t, resources.CopyInstruction{
		Source: filepath.Join(root, "icon.ico"),
		Dest:   ".",
	}, *ci)
	assert.Equal(t, "icon.ico", ci.FullName())

	require.NoError(t, os.Mkdir(filepath.Join(root, "assets"), 0o755))
	_, err = resources.IncludeFile(root, "assets")
	assert.Error(t, err, "a directory is not an includable file")
}

func TestCollect(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"translations/zh_CN.ini": "",
		"translations/en_US.ini": "",
		"qss/light_theme.qss":    "",
		"qss/dark_theme.qss":     "",
		"icon.ico":               "",
	})

	// The overlapping rule must not produce duplicates.
	rules := append(append([]resources.Rule(nil), defaultRules...),
		resources.Rule{Dir: "translations", Extensions: []string{".ini"}})

	actual, err := resources.Collect(root, rules, []string{"icon.ico", "missing.png"})
	require.NoError(t, err)

	j := func(name string) string { return filepath.Join(root, filepath.FromSlash(name)) }
	assert.Equal(t, []resources.CopyInstruction{
		{Source: j("icon.ico"), Dest: "."},
		{Source: j("qss/dark_theme.qss"), Dest: "qss"},
		{Source: j("qss/light_theme.qss"), Dest: "qss"},
		{Source: j("translations/en_US.ini"), Dest: "translations"},
		{Source: j("translations/zh_CN.ini"), Dest: "translations"},
	}, actual)
	assert.Empty(t, resources.Conflicts(actual))
}

func TestConflicts(t *testing.T) {
	t.Parallel()
	list := []resources.CopyInstruction{
		{Source: "a/icon.ico", Dest: "."},
		{Source: "b/icon.ico", Dest: "."},
		{Source: "qss/x.qss", Dest: "qss"},
		{Source: "qss/x.qss", Dest: "qss"},
	}
	assert.Equal(t, []string{"icon.ico"}, resources.Conflicts(list))
}

func TestWatch(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"translations/en_US.ini": "",
	})

	ctx, cancel := context.WithCancel(dlog.NewTestContext(t, true))
	defer cancel()

	updates := make(chan []resources.CopyInstruction, 16)
	done := make(chan error, 1)
	go func() {
		done <- resources.Watch(ctx, root, defaultRules, []string{"icon.ico"},
			func(list []resources.CopyInstruction) error {
				updates <- list
				return nil
			})
	}()

	next := func() []resources.CopyInstruction {
		select {
		case list := <-updates:
			return list
		case <-time.After(10 * time.Second):
			t.Fatal("timed out waiting for Watch")
			return nil
		}
	}

	assert.Len(t, next(), 1)

	// A directory created after Watch started gets picked up too.
	writeTree(t, root, map[string]string{
		"qss/dark_theme.qss": "",
	})
	var list []resources.CopyInstruction
	for len(list) < 2 {
		list = next()
	}
	assert.Equal(t, "qss/dark_theme.qss", list[0].FullName())

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchNestedRuleDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "res"), 0o755))
	rules := []resources.Rule{
		{Kind: "translations", Dir: "res/i18n/translations", Extensions: []string{".ini"}},
	}

	ctx, cancel := context.WithCancel(dlog.NewTestContext(t, true))
	defer cancel()

	updates := make(chan []resources.CopyInstruction, 16)
	done := make(chan error, 1)
	go func() {
		done <- resources.Watch(ctx, root, rules, nil,
			func(list []resources.CopyInstruction) error {
				updates <- list
				return nil
			})
	}()

	next := func() []resources.CopyInstruction {
		select {
		case list := <-updates:
			return list
		case <-time.After(10 * time.Second):
			t.Fatal("timed out waiting for Watch")
			return nil
		}
	}

	assert.Empty(t, next())

	// Nothing happens in the root itself; only "res" sees an event.
	writeTree(t, root, map[string]string{
		"res/i18n/translations/en_US.ini": "",
	})
	list := next()
	require.Len(t, list, 1)
	assert.Equal(t, "res/i18n/translations/en_US.ini", list[0].FullName())

	cancel()
	assert.NoError(t, <-done)
}
