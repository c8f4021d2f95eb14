// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package translations checks the application's translation files (and the stylesheets that its
// theme menu offers) before they get bundled.
//
// The application reads "translations/<language>.ini" with Python's configparser, and only looks
// at the "[translations]" section; a file without that section is rejected at runtime and the
// application falls back to a handful of built-in strings.  Catching that at build time is much
// nicer than catching it in a user's log file.
package translations

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/datawire/dlib/derror"
	"github.com/datawire/dlib/dlog"

	"github.com/notzhong/YOLOLabelsTool/pkg/resources"
)

// Section is the INI section that holds the translation strings.
const Section = "translations"

// Extension is the file extension of translation files that the application loads.
const Extension = ".ini"

// SupportedLanguages are the languages that the application offers in its language menu.
//
//nolint:gochecknoglobals // Would be 'const'.
var SupportedLanguages = []string{"zh_CN", "en_US"}

// Themes are the in-bundle names of the stylesheets that the application's theme menu loads.
//
//nolint:gochecknoglobals // Would be 'const'.
var Themes = []string{"qss/dark_theme.qss", "qss/light_theme.qss"}

var errBOM = errors.New("file starts with a UTF-8 byte order mark, which the application's loader does not accept")

// Check parses a single translation file and returns its translations section.
func Check(filename string) (ConfigSection, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(content, []byte("\xef\xbb\xbf")) {
		return nil, fmt.Errorf("%s: %w", filename, errBOM)
	}
	parser := NewConfigParser()
	config, err := parser.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	section, err := parser.Items(config, Section)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if section == nil {
		return nil, fmt.Errorf("%s: missing [%s] section", filename, Section)
	}
	return section, nil
}

// A Report summarizes a set of translation files.
type Report struct {
	// Keys is the number of translations per language.
	Keys map[string]int
	// Missing lists, per language, the keys that some other language has but it doesn't.
	Missing map[string][]string
	// Absent lists the SupportedLanguages that have no translation file.
	Absent []string
	// MissingThemes lists the Themes that are not among the files to bundle.
	MissingThemes []string
}

// Incomplete returns whether the report has anything to warn about.
func (r *Report) Incomplete() bool {
	return len(r.Missing) > 0 || len(r.Absent) > 0 || len(r.MissingThemes) > 0
}

// Language returns the language that a translation file is for, based on its name.
func Language(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), Extension)
}

// CheckAll checks every translation file among the copy instructions.  Files that fail to parse
// are reported together as a derror.MultiError; inconsistencies between languages are only
// reported in the returned Report (and logged as warnings), since the application copes with them
// by showing the untranslated key.  Missing Themes are reported the same way; the application
// keeps its current look if a stylesheet fails to load.
func CheckAll(ctx context.Context, list []resources.CopyInstruction) (*Report, error) {
	report := &Report{
		Keys:    make(map[string]int),
		Missing: make(map[string][]string),
	}
	sections := make(map[string]ConfigSection)
	var errs derror.MultiError
	for _, ci := range list {
		if !strings.HasSuffix(ci.Source, Extension) {
			continue
		}
		section, err := Check(ci.Source)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lang := Language(ci.Source)
		if _, dup := sections[lang]; dup {
			errs = append(errs, fmt.Errorf("%s: more than one translation file for language %q", ci.Source, lang))
			continue
		}
		sections[lang] = section
		report.Keys[lang] = len(section)
		dlog.Debugf(ctx, "translations: %s: %d keys", ci.Source, len(section))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	union := make(map[string]struct{})
	for _, section := range sections {
		for key := range section {
			union[key] = struct{}{}
		}
	}
	for lang, section := range sections {
		var missing []string
		for key := range union {
			if _, ok := section[key]; !ok {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			report.Missing[lang] = missing
			dlog.Warnf(ctx, "translations: %s is missing %d keys: %s",
				lang, len(missing), strings.Join(missing, ", "))
		}
	}
	for _, lang := range SupportedLanguages {
		if _, ok := sections[lang]; !ok {
			report.Absent = append(report.Absent, lang)
			dlog.Warnf(ctx, "translations: no translation file for %s; the application will use its built-in fallback strings", lang)
		}
	}

	bundled := make(map[string]struct{}, len(list))
	for _, ci := range list {
		bundled[ci.FullName()] = struct{}{}
	}
	for _, theme := range Themes {
		if _, ok := bundled[theme]; !ok {
			report.MissingThemes = append(report.MissingThemes, theme)
			dlog.Warnf(ctx, "themes: %s is not bundled; selecting that theme will do nothing", theme)
		}
	}
	return report, nil
}
