// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package cliutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Wrap the string `s` to a maximum width `w`.  Pass `w` == 0 to do no wrapping.
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func Wrap(w int, s string) string {
	return wrap(0, w, s)
}

// Wrap the string `s` to a maximum width `w` with leading indent `i`.  The first line is not
// indented (this is assumed to be done by caller).  Pass `w` == 0 to do no wrapping
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func WrapIndent(i, w int, s string) string {
	return wrap(i, w, s)
}

// A chunk is a word along with the whitespace that precedes it.  The whitespace is kept as-is
// (rather than being collapsed to a single space) so that two spaces after a period survive.
type chunk struct {
	space string
	word  string
}

func (c chunk) width() int {
	return utf8.RuneCountInString(c.space) + utf8.RuneCountInString(c.word)
}

func splitChunks(line string) []chunk {
	var ret []chunk
	for line != "" {
		wordStart := strings.IndexFunc(line, func(r rune) bool { return !unicode.IsSpace(r) })
		if wordStart < 0 {
			ret = append(ret, chunk{space: line})
			break
		}
		wordEnd := strings.IndexFunc(line[wordStart:], unicode.IsSpace)
		if wordEnd < 0 {
			wordEnd = len(line)
		} else {
			wordEnd += wordStart
		}
		ret = append(ret, chunk{space: line[:wordStart], word: line[wordStart:wordEnd]})
		line = line[wordEnd:]
	}
	return ret
}

func wrap(indent, width int, str string) string {
	if width <= 0 {
		return str
	}
	target := width - 5
	prefix := strings.Repeat(" ", indent)

	var ret strings.Builder
	for lineNum, line := range strings.Split(str, "\n") {
		if lineNum > 0 {
			ret.WriteString("\n")
			if line != "" {
				ret.WriteString(prefix)
			}
		}
		chunks := splitChunks(line)
		remaining := 0
		for _, c := range chunks {
			remaining += c.width()
		}
		col := indent
		for i, c := range chunks {
			// Break if this word would run past the target, unless everything left fits
			// within the full width.
			if i > 0 && c.word != "" && col+c.width() >= target && col+remaining > width {
				ret.WriteString("\n")
				ret.WriteString(prefix)
				ret.WriteString(c.word)
				col = indent + utf8.RuneCountInString(c.word)
			} else {
				ret.WriteString(c.space)
				ret.WriteString(c.word)
				col += c.width()
			}
			remaining -= c.width()
		}
	}
	return ret.String()
}
