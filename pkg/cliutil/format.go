// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package cliutil

import (
	"fmt"
	"strings"
)

// OutputFormat is a pflag.Value for commands that can print their result in several ways.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatYAML  OutputFormat = "yaml"
	FormatJSON  OutputFormat = "json"
)

var outputFormats = []OutputFormat{FormatTable, FormatYAML, FormatJSON}

func (f *OutputFormat) String() string { return string(*f) }
func (*OutputFormat) Type() string     { return "format" }

func (f *OutputFormat) Set(str string) error {
	for _, valid := range outputFormats {
		if OutputFormat(str) == valid {
			*f = valid
			return nil
		}
	}
	names := make([]string, 0, len(outputFormats))
	for _, valid := range outputFormats {
		names = append(names, string(valid))
	}
	return fmt.Errorf("invalid format %q (must be one of %s)", str, strings.Join(names, ", "))
}
