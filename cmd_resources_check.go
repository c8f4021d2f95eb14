package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notzhong/YOLOLabelsTool/pkg/cliutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/translations"
)

func init() {
	var flags struct {
		planFlags
		Strict bool
	}
	cmd := &cobra.Command{
		Use:   "check [flags]",
		Short: "Check the translation files and themes",
		Long: "Check that every translation file parses, and has a [translations] " +
			"section.  Keys that one language has but another lacks, supported " +
			"languages without a translation file, and theme stylesheets that are not " +
			"bundled are reported as warnings; with --strict they are errors.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			plan, err := flags.plan(ctx)
			if err != nil {
				return err
			}
			report, err := translations.CheckAll(ctx, plan.Data)
			if err != nil {
				return err
			}
			langs := make([]string, 0, len(report.Keys))
			for lang := range report.Keys {
				langs = append(langs, lang)
			}
			sort.Strings(langs)
			for _, lang := range langs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d keys, %d missing\n",
					lang, report.Keys[lang], len(report.Missing[lang]))
			}
			if flags.Strict && report.Incomplete() {
				if len(report.MissingThemes) > 0 {
					return fmt.Errorf("translations or themes are incomplete: missing %s",
						strings.Join(report.MissingThemes, ", "))
				}
				return errors.New("translations or themes are incomplete")
			}
			return nil
		},
	}
	flags.planFlags.register(cmd.Flags())
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "Treat missing translations and themes as errors")
	argparserResources.AddCommand(cmd)
}
