package fsutil_test

import (
	"archive/tar"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notzhong/YOLOLabelsTool/pkg/fsutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/testutil"
)

func TestComparePaths(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		A, B string
		Exp  int
	}{
		"equal":        {"a/b", "a/b", 0},
		"dir-first":    {"a", "a/b", -1},
		"dash-slash":   {"a-b", "a/b", 1},
		"lexical":      {"qss/x.qss", "translations/a.ini", -1},
		"deeper-later": {"a/b/c", "a/c", -1},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tcData.Exp, fsutil.ComparePaths(tcData.A, tcData.B))
			assert.Equal(t, -tcData.Exp, fsutil.ComparePaths(tcData.B, tcData.A))
		})
	}
}

func TestComparePathsAntisymmetric(t *testing.T) {
	t.Parallel()
	testutil.QuickCheck(t,
		func(a, b string) bool {
			return fsutil.ComparePaths(a, b) == -fsutil.ComparePaths(b, a)
		},
		testutil.QuickConfig{MaxCount: 500},
		[]interface{}{"a/b", "a-b"},
		[]interface{}{"", "/"})
}

func TestLayerFromFileReferences(t *testing.T) {
	t.Parallel()
	tmpdir := t.TempDir()
	filename := filepath.Join(tmpdir, "en_US.ini")
	require.NoError(t, os.WriteFile(filename, []byte("[translations]\n"), 0o644))

	osRef, err := fsutil.NewOSFileReference(filename, "app/translations/en_US.ini")
	require.NoError(t, err)

	// The same file may be stored under more than one name.
	otherRef, err := fsutil.NewOSFileReference(filename, "app/translations/zh_CN.ini")
	require.NoError(t, err)

	clamp := time.Unix(1600000000, 0)
	vfs := []fsutil.FileReference{
		otherRef,
		osRef,
		&fsutil.DirReference{MFullName: "app/translations", MMode: 0o755},
		&fsutil.DirReference{MFullName: "app", MMode: 0o755},
	}
	layer, err := fsutil.LayerFromFileReferences(vfs, &fsutil.Ownership{UName: "root", GName: "root"}, clamp)
	require.NoError(t, err)

	entries := testutil.ListLayer(t, layer)
	assert.Equal(t, []string{
		"app",
		"app/translations",
		"app/translations/en_US.ini",
		"app/translations/zh_CN.ini",
	}, testutil.EntryNames(entries))
	assert.Equal(t, byte(tar.TypeDir), entries[0].Type)
	assert.Equal(t, byte(tar.TypeReg), entries[2].Type)
	assert.Equal(t, "[translations]\n", entries[2].Content)
	assert.Equal(t, "[translations]\n", entries[3].Content)
}

func TestDirReference(t *testing.T) {
	t.Parallel()
	ref := &fsutil.DirReference{MFullName: "a/b", MMode: 0o750}
	assert.Equal(t, "b", ref.Name())
	assert.True(t, ref.IsDir())
	assert.Equal(t, fs.ModeDir|0o750, ref.Mode())
	_, err := ref.Open()
	assert.ErrorIs(t, err, fs.ErrInvalid)
}

func TestWriteOutput(t *testing.T) {
	t.Parallel()
	filename := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(filename, []byte("old"), 0o644))

	err := fsutil.WriteOutput(filename, 0o644, func(w io.Writer) error {
		return errors.New("boom")
	})
	assert.Error(t, err)
	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "old", string(content), "a failed write must not clobber the file")

	err = fsutil.WriteOutput(filename, 0o644, func(w io.Writer) error {
		_, err := io.WriteString(w, "new")
		return err
	})
	require.NoError(t, err)
	content, err = os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}
