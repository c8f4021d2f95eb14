package translations_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/datawire/dlib/derror"
	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notzhong/YOLOLabelsTool/pkg/resources"
	"github.com/notzhong/YOLOLabelsTool/pkg/translations"
)

func TestParse(t *testing.T) {
	t.Parallel()
	type testcase struct {
		Input     string
		Output    translations.Config
		ErrSubstr string
	}
	testcases := map[string]testcase{
		"basic": {
			Input: "" +
				"# comment\n" +
				"[translations]\n" +
				"OpenImage = Open Image\n" +
				"save: Save\n" +
				"; another comment\n" +
				"multi = first\n" +
				"  second\n",
			Output: translations.Config{
				"translations": {
					"OpenImage": "Open Image",
					"save":      "Save",
					"multi":     "first\nsecond",
				},
			},
		},
		"case-is-kept": {
			Input: "[translations]\nKey = a\nkey = b\n",
			Output: translations.Config{
				"translations": {"Key": "a", "key": "b"},
			},
		},
		"no-section": {
			Input:     "key = value\n",
			ErrSubstr: "line 1: no section header",
		},
		"duplicate-key": {
			Input:     "[translations]\nok = OK\nok = Okay\n",
			ErrSubstr: `line 3: duplicate option name "ok"`,
		},
		"duplicate-section": {
			Input:     "[a]\n[a]\n",
			ErrSubstr: `line 2: duplicate section name "a"`,
		},
		"no-delimiter": {
			Input:     "[translations]\njust words\n",
			ErrSubstr: "line 2: invalid line",
		},
		"defaults-are-merged": {
			Input: "[DEFAULT]\nok = OK\ncancel = Abort\n[translations]\ncancel = Cancel\n",
			Output: translations.Config{
				"DEFAULT":      {"ok": "OK", "cancel": "Abort"},
				"translations": {"ok": "OK", "cancel": "Cancel"},
			},
		},
		"defaults-may-repeat": {
			Input: "[DEFAULT]\na = 1\n[DEFAULT]\nb = 2\n[translations]\n",
			Output: translations.Config{
				"DEFAULT":      {"a": "1", "b": "2"},
				"translations": {"a": "1", "b": "2"},
			},
		},
		"values-are-raw": {
			Input: "[translations]\nprogress = 50%\n",
			Output: translations.Config{
				"translations": {"progress": "50%"},
			},
		},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			config, err := translations.NewConfigParser().Parse(strings.NewReader(tcData.Input))
			if tcData.ErrSubstr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tcData.ErrSubstr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tcData.Output, config)
		})
	}
}

func TestItems(t *testing.T) {
	t.Parallel()
	type testcase struct {
		Input     string
		Output    translations.ConfigSection
		ErrSubstr string
	}
	testcases := map[string]testcase{
		"plain": {
			Input:  "[translations]\nok = OK\n",
			Output: translations.ConfigSection{"ok": "OK"},
		},
		"escaped-percent": {
			Input:  "[translations]\nprogress = 完成 50%%\n",
			Output: translations.ConfigSection{"progress": "完成 50%"},
		},
		"lone-percent": {
			Input:     "[translations]\nprogress = 完成 50%\n",
			ErrSubstr: `section [translations]: option "progress": '%' must be followed by '%' or '('`,
		},
		"reference": {
			Input: "[translations]\napp = YOLO Labels\ntitle = %(app)s - Train\n",
			Output: translations.ConfigSection{
				"app":   "YOLO Labels",
				"title": "YOLO Labels - Train",
			},
		},
		"reference-to-default": {
			Input: "[DEFAULT]\napp = YOLO\n[translations]\nabout = About %(app)s\n",
			Output: translations.ConfigSection{
				"app":   "YOLO",
				"about": "About YOLO",
			},
		},
		"nested-reference": {
			Input: "[translations]\na = 100%%\nb = %(a)s done\nc = [%(b)s]\n",
			Output: translations.ConfigSection{
				"a": "100%",
				"b": "100% done",
				"c": "[100% done]",
			},
		},
		"missing-reference": {
			Input:     "[translations]\ntitle = %(app)s\n",
			ErrSubstr: `reference to missing option "app"`,
		},
		"bad-reference": {
			Input:     "[translations]\napp = x\ntitle = %(app)d\n",
			ErrSubstr: "bad value reference",
		},
		"cycle": {
			Input:     "[translations]\na = %(b)s\nb = %(a)s\n",
			ErrSubstr: "nested too deeply",
		},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			parser := translations.NewConfigParser()
			config, err := parser.Parse(strings.NewReader(tcData.Input))
			require.NoError(t, err)
			section, err := parser.Items(config, "translations")
			if tcData.ErrSubstr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tcData.ErrSubstr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tcData.Output, section)
		})
	}
}

func TestItemsOnlyReadsOneSection(t *testing.T) {
	t.Parallel()
	parser := translations.NewConfigParser()
	config, err := parser.Parse(strings.NewReader("[notes]\nbad = 50%\n[translations]\nok = OK\n"))
	require.NoError(t, err)

	section, err := parser.Items(config, "translations")
	require.NoError(t, err)
	assert.Equal(t, translations.ConfigSection{"ok": "OK"}, section)

	section, err = parser.Items(config, "absent")
	require.NoError(t, err)
	assert.Nil(t, section)

	parser.Interpolate = translations.NoInterpolation
	section, err = parser.Items(config, "notes")
	require.NoError(t, err)
	assert.Equal(t, translations.ConfigSection{"bad": "50%"}, section)
}

func writeFile(t *testing.T, dir, name, content string) resources.CopyInstruction {
	t.Helper()
	filename := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
	return resources.CopyInstruction{Source: filename, Dest: "translations"}
}

func TestCheck(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	good := writeFile(t, dir, "en_US.ini", "[translations]\nok = OK\ncancel = Cancel\n")
	section, err := translations.Check(good.Source)
	require.NoError(t, err)
	assert.Equal(t, []string{"cancel", "ok"}, section.Keys())

	wrong := writeFile(t, dir, "fr_FR.ini", "[strings]\nok = OK\n")
	_, err = translations.Check(wrong.Source)
	assert.ErrorContains(t, err, "missing [translations] section")

	bom := writeFile(t, dir, "de_DE.ini", "\xef\xbb\xbf[translations]\nok = OK\n")
	_, err = translations.Check(bom.Source)
	assert.ErrorContains(t, err, "byte order mark")

	percent := writeFile(t, dir, "ja_JP.ini", "[translations]\nprogress = 完成 50%\n")
	_, err = translations.Check(percent.Source)
	assert.ErrorContains(t, err, "ja_JP.ini: section [translations]")

	defaults := writeFile(t, dir, "ko_KR.ini", "[DEFAULT]\nok = OK\n[translations]\ncancel = Cancel\n")
	section, err = translations.Check(defaults.Source)
	require.NoError(t, err)
	assert.Equal(t, []string{"cancel", "ok"}, section.Keys())
}

func TestCheckAll(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	dir := t.TempDir()

	list := []resources.CopyInstruction{
		writeFile(t, dir, "zh_CN.ini", "[translations]\nok = 确定\ncancel = 取消\nsave = 保存\n"),
		writeFile(t, dir, "en_US.ini", "[translations]\nok = OK\ncancel = Cancel\n"),
		writeFile(t, dir, "dark_theme.qss", "QWidget {}\n"),
	}
	report, err := translations.CheckAll(ctx, list)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"zh_CN": 3, "en_US": 2}, report.Keys)
	assert.Equal(t, map[string][]string{"en_US": {"save"}}, report.Missing)
	assert.Empty(t, report.Absent)
	assert.True(t, report.Incomplete())

	report, err = translations.CheckAll(ctx, list[1:2])
	require.NoError(t, err)
	assert.Equal(t, []string{"zh_CN"}, report.Absent)
}

func TestCheckAllThemes(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	dir := t.TempDir()

	zh := writeFile(t, dir, "zh_CN.ini", "[translations]\nok = 确定\n")
	en := writeFile(t, dir, "en_US.ini", "[translations]\nok = OK\n")
	dark := writeFile(t, dir, "dark_theme.qss", "QWidget {}\n")
	dark.Dest = "qss"
	light := writeFile(t, dir, "light_theme.qss", "QWidget {}\n")
	light.Dest = "qss"

	report, err := translations.CheckAll(ctx, []resources.CopyInstruction{zh, en, dark})
	require.NoError(t, err)
	assert.Equal(t, []string{"qss/light_theme.qss"}, report.MissingThemes)
	assert.True(t, report.Incomplete())

	// In the wrong directory, a stylesheet does not count.
	light.Dest = "."
	report, err = translations.CheckAll(ctx, []resources.CopyInstruction{zh, en, dark, light})
	require.NoError(t, err)
	assert.Equal(t, []string{"qss/light_theme.qss"}, report.MissingThemes)

	light.Dest = "qss"
	report, err = translations.CheckAll(ctx, []resources.CopyInstruction{zh, en, dark, light})
	require.NoError(t, err)
	assert.Empty(t, report.MissingThemes)
	assert.False(t, report.Incomplete())
}

func TestCheckAllCollectsErrors(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	dir := t.TempDir()

	list := []resources.CopyInstruction{
		writeFile(t, dir, "zh_CN.ini", "no header\n"),
		writeFile(t, dir, "en_US.ini", "[other]\n"),
	}
	_, err := translations.CheckAll(ctx, list)
	var multi derror.MultiError
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi, 2)
}
