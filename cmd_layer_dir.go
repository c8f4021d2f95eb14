package main

import (
	"github.com/spf13/cobra"

	"github.com/notzhong/YOLOLabelsTool/pkg/cliutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/dir"
	"github.com/notzhong/YOLOLabelsTool/pkg/fsutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/reproducible"
)

func init() {
	var flagPrefix string
	cmd := &cobra.Command{
		Use:   "dir [flags] IN_DIRNAME >OUT_LAYERFILE",
		Short: "Create a layer from a directory",
		Long: "Create a layer from a directory, such as the dist directory that " +
			"PyInstaller writes.  Hardlinks and symlinks within the directory are kept.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, err := dir.LayerFromDir(args[0], dir.Options{
				Prefix:    flagPrefix,
				Owner:     layerOwner,
				ClampTime: reproducible.Now(),
			})
			if err != nil {
				return err
			}

			if err := fsutil.WriteLayer(layer, cmd.OutOrStdout()); err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagPrefix, "prefix", "", prefixUsage)
	argparserLayer.AddCommand(cmd)
}
