package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/apix/internal/domain"
)

func batchCmd(opts *rootOptions) *cobra.Command {
	var file string
	var stopOnError bool
	var noCache bool
	var timeout durationFlag
	var format string

	c := &cobra.Command{
		Use:   "batch <service> <endpoint|alias> --file args.yaml",
		Short: "Call one endpoint once per argument set, in order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			sets, err := loadArgSets(file)
			if err != nil {
				return err
			}

			e, err := openEngine(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = e.close() }()

			res := e.batch.Run(cmd.Context(), domain.BatchRequest{
				Service:     posArgs[0],
				Endpoint:    posArgs[1],
				ArgSets:     sets,
				StopOnError: stopOnError,
				Options: domain.CallOptions{
					Debug:   opts.debug,
					NoCache: noCache,
					Timeout: timeout.d,
				},
			})

			if err := printBatch(cmd.OutOrStdout(), res, format); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("batch failed (%d failed, %d skipped)", res.Summary.Failed, res.Summary.Skipped)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON list of argument maps (required)")
	c.Flags().BoolVar(&stopOnError, "stop-on-error", false, "skip remaining items after the first failure")
	c.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	c.Flags().Var(&timeout, "timeout", "per-request timeout (e.g. 5s)")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")

	_ = c.MarkFlagRequired("file")
	return c
}
