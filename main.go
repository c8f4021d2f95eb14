// Command yolobundle packages the YOLO labels tool: it works out which data files go in to the
// bundle, hands them to PyInstaller, and can turn the results in to OCI layers and images.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/notzhong/YOLOLabelsTool/pkg/cliutil"
	"github.com/notzhong/YOLOLabelsTool/pkg/logutil"
)

var (
	logOptions logutil.Options
	logCloser  io.Closer
)

var argparser = &cobra.Command{
	Use:   "yolobundle {[flags]|SUBCOMMAND...}",
	Short: "Package the YOLO labels tool",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,

	PersistentPreRunE: setupLogging,

	SilenceErrors: true, // main() will handle this after .ExecuteContext() returns
	SilenceUsage:  true, // our FlagErrorFunc will handle it
}

func init() {
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)

	argparser.PersistentFlags().BoolVarP(&logOptions.Verbose, "verbose", "v", false,
		"Log debugging information")
	argparser.PersistentFlags().StringVar(&logOptions.File, "log-file", "",
		"Also write logs to `FILENAME`, rotating it when it gets large")
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	logger, closer := logutil.NewLogger(logOptions, cmd.ErrOrStderr())
	logCloser = closer
	cmd.SetContext(logutil.WithLogger(cmd.Context(), logger))
	return nil
}

func main() {
	ctx := context.Background()

	err := argparser.ExecuteContext(ctx)
	if logCloser != nil {
		_ = logCloser.Close()
	}
	if err != nil {
		fmt.Fprintf(argparser.ErrOrStderr(), "%s: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}
