package main

import (
	"github.com/spf13/cobra"

	"github.com/notzhong/YOLOLabelsTool/pkg/cliutil"
)

var argparserImage = &cobra.Command{
	Use:   "image {[flags]|SUBCOMMAND...}",
	Short: "Create image files",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,
}

func init() {
	argparser.AddCommand(argparserImage)
}
