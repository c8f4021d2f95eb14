// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package translations

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// DefaultSection is the section whose options every other section inherits.
const DefaultSection = "DEFAULT"

// Config is a parsed INI file: section name -> option name -> value.
type Config map[string]ConfigSection

type ConfigSection map[string]string

// Keys returns the option names of the section, sorted.
func (s ConfigSection) Keys() []string {
	ret := make([]string, 0, len(s))
	for k := range s {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// ConfigParser parses INI files the way that the application's loader (Python's configparser)
// does.
type ConfigParser struct {
	Delimiters            []string
	CommentPrefixes       []string
	InlineCommentPrefixes []string

	Strict             bool
	EmptyLinesInValues bool

	// Transform keys
	OptionTransform func(string) string
	// Transform values; vars is the section being read (with the defaults merged in), and option
	// is the name of the value being transformed.
	Interpolate func(vars ConfigSection, option, val string) (string, error)
}

func NewConfigParser() *ConfigParser {
	return &ConfigParser{
		Delimiters:            []string{"=", ":"},
		CommentPrefixes:       []string{"#", ";"},
		InlineCommentPrefixes: []string{},

		Strict:             true,
		EmptyLinesInValues: true,

		// The application sets `optionxform` so that translation keys keep their case.
		OptionTransform: func(s string) string { return s },
		Interpolate:     BasicInterpolation,
	}
}

// Parse reads an INI file.  Errors carry the line number.  Options from the DEFAULT section are
// merged in to every other section (without overriding the section's own options); values are
// returned as written, use Items to get them interpolated.
func (p *ConfigParser) Parse(fp io.Reader) (Config, error) {
	config := make(Config)

	var (
		curIndentLevel int
		curSection     ConfigSection
		curKey         string
		curVal         []string
	)

	flushKV := func() {
		if curVal != nil {
			curSection[curKey] = strings.TrimRight(strings.Join(curVal, "\n"), "\n")
			curKey = ""
			curVal = nil
		}
	}

	fpLines := bufio.NewReader(fp)
	lineno := 0
	keepGoing := true
	for keepGoing {
		line, err := fpLines.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			keepGoing = false
		}
		lineno++
		// strip comments and whitespace
		commentStart := len(line)
		for _, commentPrefix := range p.InlineCommentPrefixes {
			index := strings.Index(line, commentPrefix)
			if index > 0 && index < commentStart {
				commentStart = index
			}
		}
		for _, commentPrefix := range p.CommentPrefixes {
			if strings.HasPrefix(strings.TrimSpace(line), commentPrefix) {
				commentStart = 0
				break
			}
		}
		value := strings.TrimSpace(line[:commentStart])
		// handle empty lines
		if value == "" {
			if p.EmptyLinesInValues {
				// append empty line to the value (if there is one!), but only if
				// there was no comment.
				if curVal != nil && commentStart == len(line) {
					curVal = append(curVal, value)
				}
			} else {
				curIndentLevel = 0
			}
			continue
		}

		lineIndentLevel := 0
		for i, r := range line {
			if !unicode.IsSpace(r) {
				lineIndentLevel = i
				break
			}
		}
		if curVal != nil && lineIndentLevel > 0 && lineIndentLevel > curIndentLevel {
			// continuation line
			curVal = append(curVal, value)
		} else if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
			// section header
			flushKV()
			curIndentLevel = lineIndentLevel
			sectName := strings.TrimSuffix(strings.TrimPrefix(value, "["), "]")
			if _, exists := config[sectName]; !exists {
				config[sectName] = make(ConfigSection)
			} else if p.Strict && sectName != DefaultSection {
				return nil, fmt.Errorf("line %d: duplicate section name %q", lineno, sectName)
			}
			curSection = config[sectName]
		} else {
			// start of a k/v pair
			flushKV()
			curIndentLevel = lineIndentLevel
			if curSection == nil {
				return nil, fmt.Errorf("line %d: no section header", lineno)
			}
			sepPos := len(value)
			sepLen := 0
			for _, sep := range p.Delimiters {
				if index := strings.Index(value, sep); index >= 0 {
					if index < sepPos {
						sepPos = index
						sepLen = len(sep)
					}
				}
			}
			if sepPos == len(value) {
				return nil, fmt.Errorf("line %d: invalid line: %q", lineno, value)
			}
			curKey = p.OptionTransform(strings.TrimSpace(value[:sepPos]))
			curVal = []string{
				strings.TrimSpace(value[sepPos+sepLen:]),
			}
			if _, exists := curSection[curKey]; p.Strict && exists {
				return nil, fmt.Errorf("line %d: duplicate option name %q", lineno, curKey)
			}
		}
	}
	flushKV()

	if defaults, ok := config[DefaultSection]; ok {
		for sectName, section := range config {
			if sectName == DefaultSection {
				continue
			}
			for key, val := range defaults {
				if _, exists := section[key]; !exists {
					section[key] = val
				}
			}
		}
	}

	return config, nil
}

// Items returns the options of a section with Interpolate applied to every value.  It returns
// nil if config has no such section.
func (p *ConfigParser) Items(config Config, name string) (ConfigSection, error) {
	raw, ok := config[name]
	if !ok {
		return nil, nil
	}
	ret := make(ConfigSection, len(raw))
	for key, val := range raw {
		var err error
		ret[key], err = p.Interpolate(raw, key, val)
		if err != nil {
			return nil, fmt.Errorf("section [%s]: %w", name, err)
		}
	}
	return ret, nil
}

func NoInterpolation(_ ConfigSection, _, val string) (string, error) {
	return val, nil
}

// maxInterpolationDepth bounds how many references deep BasicInterpolation will follow, which
// is also what stops reference cycles.
const maxInterpolationDepth = 10

var reInterpolationRef = regexp.MustCompile(`^%\(([^)]+)\)s`)

// BasicInterpolation expands "%(name)s" to the value of the option "name" in vars (which is
// itself expanded), and "%%" to a literal "%".  Any other use of "%" is an error, even in a value
// that has no references; write "50%%" for "50%".
func BasicInterpolation(vars ConfigSection, option, val string) (string, error) {
	var ret strings.Builder
	if err := interpolate(&ret, vars, option, val, 1); err != nil {
		return "", err
	}
	return ret.String(), nil
}

func interpolate(ret *strings.Builder, vars ConfigSection, option, rest string, depth int) error {
	if depth > maxInterpolationDepth {
		return fmt.Errorf("option %q: value references are nested too deeply (more than %d levels; is there a cycle?)",
			option, maxInterpolationDepth)
	}
	for rest != "" {
		pct := strings.IndexByte(rest, '%')
		if pct < 0 {
			ret.WriteString(rest)
			return nil
		}
		ret.WriteString(rest[:pct])
		rest = rest[pct:]
		switch {
		case strings.HasPrefix(rest, "%%"):
			ret.WriteByte('%')
			rest = rest[2:]
		case strings.HasPrefix(rest, "%("):
			match := reInterpolationRef.FindStringSubmatch(rest)
			if match == nil {
				return fmt.Errorf("option %q: bad value reference %q", option, rest)
			}
			rest = rest[len(match[0]):]
			name := match[1]
			val, ok := vars[name]
			if !ok {
				return fmt.Errorf("option %q: reference to missing option %q", option, name)
			}
			if strings.Contains(val, "%") {
				if err := interpolate(ret, vars, option, val, depth+1); err != nil {
					return err
				}
			} else {
				ret.WriteString(val)
			}
		default:
			return fmt.Errorf("option %q: '%%' must be followed by '%%' or '(', found: %q", option, rest)
		}
	}
	return nil
}
