package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"

	"github.com/notzhong/YOLOLabelsTool/pkg/cliutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/manifest"
	"github.com/notzhong/YOLOLabelsTool/pkg/pyinstaller"
	"github.com/notzhong/YOLOLabelsTool/pkg/translations"
)

// logManifestChanges logs how m differs from the manifest that an earlier build left in
// filename, if there is one.  A manifest that can't be read is replaced without comparing.
func logManifestChanges(ctx context.Context, filename string, m *manifest.Manifest) {
	old, err := manifest.Read(filename)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			dlog.Warnf(ctx, "not comparing with the previous manifest: %v", err)
		}
		return
	}
	var buf strings.Builder
	if differs, _ := m.EncodeDiff(&buf, old); !differs {
		dlog.Infof(ctx, "data files are unchanged since the last build")
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		dlog.Infof(ctx, "data files changed since the last build: %s", line)
	}
}

func init() {
	var flags struct {
		planFlags
		PyInstaller string
		DryRun      bool
		Manifest    string
	}
	cmd := &cobra.Command{
		Use:   "build [flags]",
		Short: "Build the application with PyInstaller",
		Long: "Check the translation files, write NAME.spec to the project root, and run " +
			"PyInstaller on it.  The result ends up in the descriptor's distDir.  " +
			"With --dry-run, print the spec file and the PyInstaller command instead of " +
			"writing or running anything.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			plan, err := flags.plan(ctx)
			if err != nil {
				return err
			}
			if _, err := translations.CheckAll(ctx, plan.Data); err != nil {
				return err
			}

			specName := plan.Descriptor.Name + ".spec"
			argv := pyinstaller.Command(plan.Descriptor, specName, flags.PyInstaller)

			if flags.DryRun {
				if err := pyinstaller.Render(cmd.OutOrStdout(), plan, plan.Root); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n# (cd %q && %s)\n", plan.Root, strings.Join(argv, " "))
				return nil
			}

			specfile := filepath.Join(plan.Root, specName)
			if err := pyinstaller.WriteSpec(plan, specfile); err != nil {
				return err
			}
			dlog.Infof(ctx, "wrote %s", specfile)
			if err := pyinstaller.Run(ctx, plan.Root, argv); err != nil {
				return fmt.Errorf("pyinstaller: %w", err)
			}
			dlog.Infof(ctx, "built %s", filepath.Join(plan.Root, pyinstaller.OutputDir(plan.Descriptor)))

			if flags.Manifest != "" {
				m, err := manifest.Build(ctx, plan.Descriptor.Name, plan.Data)
				if err != nil {
					return err
				}
				logManifestChanges(ctx, flags.Manifest, m)
				if err := m.Write(flags.Manifest); err != nil {
					return err
				}
				dlog.Infof(ctx, "wrote %s", flags.Manifest)
			}
			return nil
		},
	}
	flags.planFlags.register(cmd.Flags())
	cmd.Flags().StringVar(&flags.PyInstaller, "pyinstaller", pyinstaller.DefaultBinary,
		"Run `PROGRAM` as PyInstaller")
	cmd.Flags().BoolVarP(&flags.DryRun, "dry-run", "n", false,
		"Print what would be done, without doing it")
	cmd.Flags().StringVar(&flags.Manifest, "manifest", "",
		"After building, write a manifest of the data files to `FILENAME`, and log what changed since the manifest that was there")
	argparser.AddCommand(cmd)
}
