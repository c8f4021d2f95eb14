package main

import (
	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"

	"github.com/notzhong/YOLOLabelsTool/pkg/cliutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/collect"
	"github.com/notzhong/YOLOLabelsTool/pkg/reproducible"
)

func init() {
	var flags planFlags
	cmd := &cobra.Command{
		Use:   "collect [flags] OUT_DIR",
		Short: "Copy the data files in to a directory",
		Long: "Copy every data file to OUT_DIR, at the same place relative to OUT_DIR " +
			"that it will have relative to the bundle root.  Modification times are " +
			"clamped to SOURCE_DATE_EPOCH if it is set.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			plan, err := flags.plan(ctx)
			if err != nil {
				return err
			}
			n, err := collect.Collect(ctx, plan.Data, args[0], reproducible.Now())
			if err != nil {
				return err
			}
			dlog.Infof(ctx, "collected %d data files in to %s", n, args[0])
			return nil
		},
	}
	flags.register(cmd.Flags())
	argparser.AddCommand(cmd)
}
