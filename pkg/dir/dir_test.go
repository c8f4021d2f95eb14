package dir_test

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notzhong/YOLOLabelsTool/pkg/bundle"
	"github.com/notzhong/YOLOLabelsTool/pkg/collect"
	"github.com/notzhong/YOLOLabelsTool/pkg/descriptor"
	"github.com/notzhong/YOLOLabelsTool/pkg/dir"
	"github.com/notzhong/YOLOLabelsTool/pkg/fsutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/testutil"
)

func TestLayerFromDir(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "_internal"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "YoloLabelsTrainTool"), []byte("ELF"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "_internal", "base_library.zip"), []byte("PK"), 0o644))
	require.NoError(t, os.Link(
		filepath.Join(src, "_internal", "base_library.zip"),
		filepath.Join(src, "_internal", "copy.zip")))
	require.NoError(t, os.Symlink("YoloLabelsTrainTool", filepath.Join(src, "run")))

	layer, err := dir.LayerFromDir(src, dir.Options{
		Prefix: "opt/YoloLabelsTrainTool",
		Owner:  &fsutil.Ownership{UName: "root", GName: "root"},
	})
	require.NoError(t, err)

	entries := testutil.ListLayer(t, layer)
	assert.Equal(t, []testutil.Entry{
		{Name: "opt", Type: tar.TypeDir, Mode: 0o755},
		{Name: "opt/YoloLabelsTrainTool", Type: tar.TypeDir, Mode: 0o755},
		{Name: "opt/YoloLabelsTrainTool/YoloLabelsTrainTool", Type: tar.TypeReg, Mode: 0o755, Content: "ELF"},
		{Name: "opt/YoloLabelsTrainTool/_internal", Type: tar.TypeDir, Mode: 0o755},
		{Name: "opt/YoloLabelsTrainTool/_internal/base_library.zip", Type: tar.TypeReg, Mode: 0o644, Content: "PK"},
		{Name: "opt/YoloLabelsTrainTool/_internal/copy.zip", Type: tar.TypeLink, Mode: 0o644,
			Linkname: "opt/YoloLabelsTrainTool/_internal/base_library.zip"},
		{Name: "opt/YoloLabelsTrainTool/run", Type: tar.TypeSymlink, Mode: 0o777, Linkname: "YoloLabelsTrainTool"},
	}, entries)
}

// Collecting the resources in to a directory and then layering that directory must give the same
// layer as layering the resources directly.
func TestLayerFromCollectedDir(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, true)
	root := t.TempDir()
	for name, content := range map[string]string{
		"icon.ico":               "ICO",
		"translations/en_US.ini": "[translations]\nok = OK\n",
		"translations/zh_CN.ini": "[translations]\nok = 确定\n",
		"qss/dark_theme.qss":     "QWidget {}\n",
	} {
		filename := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filename), 0o755))
		require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
	}
	plan, err := bundle.NewPlan(ctx, root, descriptor.Default())
	require.NoError(t, err)

	clamp := time.Unix(1600000000, 0)
	owner := &fsutil.Ownership{UName: "root", GName: "root"}

	direct, err := plan.Layer("opt/app", owner, clamp)
	require.NoError(t, err)

	out := t.TempDir()
	_, err = collect.Collect(ctx, plan.Data, out, clamp)
	require.NoError(t, err)
	viaDir, err := dir.LayerFromDir(out, dir.Options{
		Prefix:    "opt/app",
		Owner:     owner,
		ClampTime: clamp,
	})
	require.NoError(t, err)

	assert.Equal(t,
		testutil.EntryNames(testutil.ListLayer(t, direct)),
		testutil.EntryNames(testutil.ListLayer(t, viaDir)))
	equal, err := fsutil.LayersEqualExceptTimestamps(direct, viaDir)
	require.NoError(t, err)
	if !equal {
		testutil.AssertEqualLayers(t, direct, viaDir)
	}
}
