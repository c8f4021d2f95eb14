package main

import (
	"github.com/spf13/cobra"

	"github.com/notzhong/YOLOLabelsTool/pkg/cliutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/fsutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/reproducible"
)

func init() {
	var flags struct {
		planFlags
		Prefix string
	}
	cmd := &cobra.Command{
		Use:   "resources [flags] >OUT_LAYERFILE",
		Short: "Create a layer of the data files",
		Long: "Create a layer holding just the data files, laid out the way they are in " +
			"the bundle.  The default prefix is opt/NAME, where NAME is the application " +
			"name from the descriptor.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			plan, err := flags.plan(ctx)
			if err != nil {
				return err
			}
			layer, err := plan.Layer(installPrefix(flags.Prefix, plan.Descriptor.Name),
				layerOwner, reproducible.Now())
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
	argparserLayer.AddCommand(cmd)
}
