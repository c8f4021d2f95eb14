package main

import (
	"path"

	"github.com/spf13/cobra"

	"github.com/notzhong/YOLOLabelsTool/pkg/cliutil"
)

var argparserLayer = &cobra.Command{
	Use:   "layer {[flags]|SUBCOMMAND...}",
	Short: "Create layer files",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,
}

func init() {
	argparser.AddCommand(argparserLayer)
}

// installPrefix is where the application goes in the image if --prefix isn't given.
func installPrefix(flagPrefix, name string) string {
	if flagPrefix != "" {
		return flagPrefix
	}
	return path.Join("opt", name)
}

const prefixUsage = "Place the files under `PREFIX` in the layer; should be forward-slash " +
	`separated and should be absolute but NOT starting with a slash.  For example, "opt/YoloLabelsTrainTool".`
