package main

import (
	"github.com/spf13/cobra"

	"github.com/notzhong/YOLOLabelsTool/pkg/cliutil"
)

var argparserResources = &cobra.Command{
	Use:   "resources {[flags]|SUBCOMMAND...}",
	Short: "Inspect the data files that go in to the bundle",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,
}

func init() {
	argparser.AddCommand(argparserResources)
}
