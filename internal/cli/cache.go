package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func cacheCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}

	c.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEngine(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = e.close() }()

			if err := e.cache.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cache cleared (%s)\n", e.settings.Cache.Backend)
			return nil
		},
	})
	return c
}
