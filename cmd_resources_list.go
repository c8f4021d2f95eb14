package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"

	"github.com/notzhong/YOLOLabelsTool/pkg/bundle"
	"github.com/notzhong/YOLOLabelsTool/pkg/cliutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/manifest"
	"github.com/notzhong/YOLOLabelsTool/pkg/resources"
)

func printManifest(ctx context.Context, w io.Writer, plan *bundle.Plan, list []resources.CopyInstruction, format cliutil.OutputFormat) error {
	m, err := manifest.Build(ctx, plan.Descriptor.Name, list)
	if err != nil {
		return err
	}
	switch format {
	case cliutil.FormatYAML:
		return m.Encode(w)
	case cliutil.FormatJSON:
		return m.EncodeJSON(w)
	default:
		return m.EncodeTable(w, plan.Root)
	}
}

func init() {
	var flags struct {
		planFlags
		Format cliutil.OutputFormat
		Watch  bool
	}
	flags.Format = cliutil.FormatTable
	cmd := &cobra.Command{
		Use:   "list [flags]",
		Short: "List the data files that would be bundled",
		Long: "Discover the translation files, stylesheets, and icon of the project, and " +
			"print where each of them would be placed in the bundle, along with its " +
			"digest.  With --watch, keep running and print the list again every time it " +
			"changes.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			plan, err := flags.plan(ctx)
			if err != nil {
				return err
			}
			if !flags.Watch {
				return printManifest(ctx, cmd.OutOrStdout(), plan, plan.Data, flags.Format)
			}

			ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
			defer cancel()
			first := true
			return resources.Watch(ctx, plan.Root, plan.Descriptor.Resources, plan.Descriptor.Files(),
				func(list []resources.CopyInstruction) error {
					if !first {
						dlog.Infof(ctx, "resources changed: %d data files", len(list))
						if flags.Format == cliutil.FormatYAML {
							fmt.Fprintln(cmd.OutOrStdout(), "---")
						}
					}
					first = false
					return printManifest(ctx, cmd.OutOrStdout(), plan, list, flags.Format)
				})
		},
	}
	flags.planFlags.register(cmd.Flags())
	cmd.Flags().VarP(&flags.Format, "format", "f", "Print the list as `FORMAT` (table, yaml, or json)")
	cmd.Flags().BoolVarP(&flags.Watch, "watch", "w", false, "Keep watching for changes")
	argparserResources.AddCommand(cmd)
}
