// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pyinstaller hands a resolved bundle plan to PyInstaller: it renders the plan as a
// PyInstaller .spec file, and runs PyInstaller on it.
package pyinstaller

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/notzhong/YOLOLabelsTool/pkg/bundle"
	"github.com/notzhong/YOLOLabelsTool/pkg/descriptor"
)

// pyStr renders s as a Python string literal.  The escapes that strconv.Quote produces for valid
// UTF-8 (\a \b \f \n \r \t \v \\ \" \xXX \uXXXX \UXXXXXXXX) all mean the same thing in Python;
// printable non-ASCII is left as-is, and the spec file declares itself as UTF-8.  For an invalid
// byte Quote writes \xXX, which Python reads as the code point U+00XX instead, so Render refuses
// such strings before they get here.
func pyStr(s string) string {
	return strconv.Quote(s)
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func pyList(strs []string) string {
	quoted := make([]string, 0, len(strs))
	for _, str := range strs {
		quoted = append(quoted, pyStr(str))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

var specTmpl = template.Must(template.New("spec").
	Funcs(template.FuncMap{
		"py":     pyStr,
		"pyBool": pyBool,
		"pyList": pyList,
	}).
	Parse(`# -*- mode: python ; coding: utf-8 -*-
# Generated by yolobundle; do not edit.

a = Analysis(
    [{{ py .EntryPoint }}],
    pathex=[],
    binaries=[],
    datas=[
{{- range .Datas }}
        ({{ py .Source }}, {{ py .Dest }}),
{{- end }}
    ],
    hiddenimports={{ pyList .Descriptor.HiddenImports }},
    hookspath=[],
    hooksconfig={},
    runtime_hooks=[],
    excludes={{ pyList .Descriptor.Excludes }},
    noarchive=False,
)
pyz = PYZ(a.pure)

exe = EXE(
    pyz,
    a.scripts,
{{- if .OneFile }}
    a.binaries,
    a.datas,
    [],
{{- else }}
    [],
    exclude_binaries=True,
{{- end }}
    name={{ py .Descriptor.Name }},
    debug=False,
    bootloader_ignore_signals=False,
    strip=False,
    upx={{ pyBool .Descriptor.UPX }},
{{- if .OneFile }}
    upx_exclude=[],
    runtime_tmpdir=None,
{{- end }}
    console={{ pyBool .Descriptor.Console }},
{{- if .Icon }}
    icon=[{{ py .Icon }}],
{{- end }}
)
{{- if not .OneFile }}
coll = COLLECT(
    exe,
    a.binaries,
    a.datas,
    strip=False,
    upx={{ pyBool .Descriptor.UPX }},
    upx_exclude=[],
    name={{ py .Descriptor.Name }},
)
{{- end }}
`))

type specData struct {
	Descriptor descriptor.Descriptor
	EntryPoint string
	Icon       string
	Datas      []dataTuple
	OneFile    bool
}

type dataTuple struct {
	Source string
	Dest   string
}

// specPath returns how the spec file should refer to filename: relative to specDir if filename is
// inside of it, and absolute otherwise.  Either way it is forward-slash separated, which
// PyInstaller accepts on every platform.
func specPath(specDir, filename string) string {
	if specDir != "" {
		if rel, err := filepath.Rel(specDir, filename); err == nil && filepath.IsLocal(rel) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filename)
}

// checkUTF8 returns an error for the first of strs that is not valid UTF-8.
func checkUTF8(what string, strs ...string) error {
	for _, str := range strs {
		if !utf8.ValidString(str) {
			return fmt.Errorf("%s %q is not valid UTF-8, and can't be written to a spec file", what, str)
		}
	}
	return nil
}

// Render writes plan as a PyInstaller .spec file to w.  Paths in the plan are written relative to
// specDir (the directory that the .spec file will be in, which is what PyInstaller resolves
// relative paths against); pass "" to write absolute paths.  Every string must be valid UTF-8.
func Render(w io.Writer, plan *bundle.Plan, specDir string) error {
	desc := plan.Descriptor
	if err := checkUTF8("name", desc.Name); err != nil {
		return err
	}
	if err := checkUTF8("hidden import", desc.HiddenImports...); err != nil {
		return err
	}
	if err := checkUTF8("exclude", desc.Excludes...); err != nil {
		return err
	}
	if specDir != "" {
		var err error
		specDir, err = filepath.Abs(specDir)
		if err != nil {
			return err
		}
	}
	data := specData{
		Descriptor: plan.Descriptor,
		EntryPoint: specPath(specDir, plan.EntryPoint()),
		OneFile:    plan.Descriptor.Layout == descriptor.LayoutOneFile,
	}
	if plan.Icon != nil {
		data.Icon = specPath(specDir, plan.Icon.Source)
	}
	for _, ci := range plan.Data {
		data.Datas = append(data.Datas, dataTuple{
			Source: specPath(specDir, ci.Source),
			Dest:   ci.Dest,
		})
	}
	if err := checkUTF8("path", data.EntryPoint, data.Icon); err != nil {
		return err
	}
	for _, tuple := range data.Datas {
		if err := checkUTF8("path", tuple.Source, tuple.Dest); err != nil {
			return err
		}
	}
	return specTmpl.Execute(w, data)
}
