package main

import (
	"github.com/spf13/cobra"

	"github.com/notzhong/YOLOLabelsTool/pkg/cliutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/fsutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/pyinstaller"
	"github.com/notzhong/YOLOLabelsTool/pkg/reproducible"
)

func init() {
	var flags struct {
		planFlags
		Prefix      string
		PyInstaller string
	}
	cmd := &cobra.Command{
		Use:   "pyinstaller [flags] >OUT_LAYERFILE",
		Short: "Build the application with PyInstaller, and create a layer of the result",
		Long: "Run PyInstaller in a scratch directory, and create a layer from its " +
			"output.  The descriptor's distDir and workDir are not used.  PyInstaller " +
			"builds for the platform that it runs on, so this needs to be run on the " +
			"same OS as the image.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			plan, err := flags.plan(ctx)
			if err != nil {
				return err
			}
			layer, err := pyinstaller.LayerFromBuild(ctx, plan, flags.PyInstaller,
				installPrefix(flags.Prefix, plan.Descriptor.Name), layerOwner, reproducible.Now())
			if err != nil {
				return err
			}

			if err := fsutil.WriteLayer(layer, cmd.OutOrStdout()); err != nil {
				return err
			}
			return nil
		},
	}
	flags.planFlags.register(cmd.Flags())
	cmd.Flags().StringVar(&flags.Prefix, "prefix", "", prefixUsage)
	cmd.Flags().StringVar(&flags.PyInstaller, "pyinstaller", pyinstaller.DefaultBinary,
		"Run `PROGRAM` as PyInstaller")
	argparserLayer.AddCommand(cmd)
}
