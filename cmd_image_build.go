package main

import (
	"io"

	"github.com/google/go-containerregistry/pkg/v1/empty"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	ociv1tarball "github.com/google/go-containerregistry/pkg/v1/tarball"
	"github.com/spf13/cobra"

	"github.com/notzhong/YOLOLabelsTool/pkg/cliutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/fsutil"
)

func init() {
	var flags struct {
		Base   string
		Output string
	}
	cmd := &cobra.Command{
		Use:   "build [flags] IN_LAYERFILES... >OUT_IMAGEFILE",
		Short: "Combine layers in to a complete image",
		Args:  cliutil.WrapPositionalArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := empty.Image
			if flags.Base != "" {
				var err error
				base, err = fsutil.OpenImage(flags.Base)
				if err != nil {
					return err
				}
			}

			layers, err := fsutil.OpenLayers(args)
			if err != nil {
				return err
			}

			img, err := mutate.AppendLayers(base, layers...)
			if err != nil {
				return err
			}
			return fsutil.WriteOutput(flags.Output, 0o644, func(w io.Writer) error {
				return ociv1tarball.Write(nil, img, w)
			})
		},
	}
	cmd.Flags().StringVar(&flags.Base, "base", "", "Use `IN_IMAGEFILE` as the base of the image")
	outputFlag(cmd.Flags(), &flags.Output, "image")

	argparserImage.AddCommand(cmd)
}
