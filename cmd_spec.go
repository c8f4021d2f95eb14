package main

import (
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/notzhong/YOLOLabelsTool/pkg/cliutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/fsutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/pyinstaller"
)

var argparserSpec = &cobra.Command{
	Use:   "spec {[flags]|SUBCOMMAND...}",
	Short: "Work with PyInstaller spec files",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,
}

func init() {
	var flags struct {
		planFlags
		Output string
	}
	cmd := &cobra.Command{
		Use:   "render [flags]",
		Short: "Write the PyInstaller spec file for the project",
		Long: "Write a PyInstaller .spec file that builds the project the way the " +
			"descriptor says to.  Paths in the spec file are relative to the directory " +
			"that the spec file is written to (the project root, when writing to stdout).",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			plan, err := flags.plan(ctx)
			if err != nil {
				return err
			}
			if isStdout(flags.Output) {
				return pyinstaller.Render(cmd.OutOrStdout(), plan, plan.Root)
			}
			return fsutil.WriteOutput(flags.Output, 0o644, func(w io.Writer) error {
				return pyinstaller.Render(w, plan, filepath.Dir(flags.Output))
			})
		},
	}
	flags.planFlags.register(cmd.Flags())
	outputFlag(cmd.Flags(), &flags.Output, "spec file")
	argparserSpec.AddCommand(cmd)

	argparser.AddCommand(argparserSpec)
}
