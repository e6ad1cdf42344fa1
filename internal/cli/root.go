package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	debug     bool
	trace     bool
	configDir string
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "apix",
		Short:        "apix: call configured REST and GraphQL endpoints by name",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "verbose logging to <config>/logs/apix.log")
	cmd.PersistentFlags().BoolVar(&opts.trace, "trace", false, "export OpenTelemetry spans to stderr")
	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "global config root (default ~/.apix)")

	cmd.AddCommand(
		initCmd(),
		callCmd(opts),
		batchCmd(opts),
		servicesCmd(opts),
		validateCmd(opts),
		cacheCmd(opts),
		serveCmd(opts),
		browseCmd(opts),
		versionCmd(),
	)
	return cmd
}
