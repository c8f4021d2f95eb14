package main

import (
	"github.com/spf13/cobra"

	"github.com/notzhong/YOLOLabelsTool/pkg/cliutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/manifest"
)

func init() {
	var flags struct {
		planFlags
	}
	cmd := &cobra.Command{
		Use:   "diff [flags] IN_MANIFESTFILE",
		Short: "Compare the data files against a manifest from an earlier build",
		Long: "Hash the data files that would be bundled now, and print which of them were " +
			"added (A), modified (M), or deleted (D) since IN_MANIFESTFILE was written by " +
			"'build --manifest'.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			old, err := manifest.Read(args[0])
			if err != nil {
				return err
			}
			plan, err := flags.plan(ctx)
			if err != nil {
				return err
			}
			cur, err := manifest.Build(ctx, plan.Descriptor.Name, plan.Data)
			if err != nil {
				return err
			}
			_, err = cur.EncodeDiff(cmd.OutOrStdout(), old)
			return err
		},
	}
	flags.planFlags.register(cmd.Flags())
	argparserResources.AddCommand(cmd)
}
