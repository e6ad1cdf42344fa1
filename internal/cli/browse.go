package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/apix/internal/infra/logger"
	"github.com/aalvaropc/apix/internal/ui/tui"
)

func browseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse services interactively and call endpoints or aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The alt screen owns the terminal; request traces would corrupt it.
			e, err := openEngine(cmd.Context(), opts, io.Discard)
			if err != nil {
				return err
			}
			defer func() { _ = e.close() }()

			return tui.Run(tui.Deps{
				Services: e.services,
				Caller:   e.caller,
				Logger:   logger.L(),
				Debug:    opts.debug,
			})
		},
	}
}
