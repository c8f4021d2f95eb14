// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/notzhong/YOLOLabelsTool/pkg/resources"
)

// EncodeJSON writes the manifest as indented JSON.
func (m *Manifest) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// EncodeTable writes the manifest as a human-readable table.  Sources are shown relative to root
// when they are inside of it.
func (m *Manifest) EncodeTable(w io.Writer, root string) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Source", "Size", "Digest"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetHeaderLine(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, entry := range m.Entries {
		source := entry.Source
		if rel, err := filepath.Rel(root, source); err == nil && filepath.IsLocal(rel) {
			source = rel
		}
		table.Append([]string{
			resources.CopyInstruction{Source: entry.Source, Dest: entry.Dest}.FullName(),
			source,
			strconv.FormatInt(entry.Size, 10),
			shortDigest(entry.Digest),
		})
	}
	table.Render()
	return nil
}

func shortDigest(digest string) string {
	algo, hex, ok := strings.Cut(digest, ":")
	if !ok || len(hex) <= 12 {
		return digest
	}
	return algo + ":" + hex[:12]
}

// EncodeDiff writes the changes going from old to m, one per line, in the style of "git diff
// --name-status": "A", "M", or "D", a tab, and the in-bundle name.  It returns whether there were
// any changes.
func (m *Manifest) EncodeDiff(w io.Writer, old *Manifest) (bool, error) {
	added, removed, changed := Diff(old, m)
	for _, group := range []struct {
		status string
		names  []string
	}{
		{"A", added},
		{"M", changed},
		{"D", removed},
	} {
		for _, name := range group.names {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", group.status, name); err != nil {
				return false, err
			}
		}
	}
	return len(added)+len(removed)+len(changed) > 0, nil
}
