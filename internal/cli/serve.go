package cli

import (
	"github.com/spf13/cobra"

	"github.com/aalvaropc/apix/internal/buildinfo"
	"github.com/aalvaropc/apix/internal/infra/logger"
	"github.com/aalvaropc/apix/internal/server"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Expose the engine over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEngine(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = e.close() }()

			srv := server.New(addr, logger.L(), server.Deps{
				Services: e.services,
				Caller:   e.caller,
				Batch:    e.batch,
				Version:  buildinfo.Version,
			})
			return srv.Start(cmd.Context())
		},
	}

	c.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	return c
}
