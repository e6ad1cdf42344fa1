package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/apix/internal/domain"
)

func callCmd(opts *rootOptions) *cobra.Command {
	var hints domain.ParamHints
	var noCache bool
	var timeout durationFlag
	var format string

	c := &cobra.Command{
		Use:   "call <service> <endpoint|alias> [key=value ...]",
		Short: "Call one endpoint or alias",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			args, err := parseArgs(posArgs[2:])
			if err != nil {
				return err
			}

			e, err := openEngine(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = e.close() }()

			res := e.caller.Call(cmd.Context(), domain.CallRequest{
				Service:  posArgs[0],
				Endpoint: posArgs[1],
				Args:     args,
				Options: domain.CallOptions{
					Debug:   opts.debug,
					NoCache: noCache,
					Timeout: timeout.d,
					Hints:   hints,
				},
			})

			if err := printResult(cmd.OutOrStdout(), res, format); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("call failed (%s)", res.Error.Code)
			}
			return nil
		},
	}

	c.Flags().StringSliceVar(&hints.Header, "header", nil, "argument names to send as headers")
	c.Flags().StringSliceVar(&hints.Query, "query", nil, "argument names to send as query parameters")
	c.Flags().StringSliceVar(&hints.Body, "body", nil, "argument names to send in the body")
	c.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	c.Flags().Var(&timeout, "timeout", "request timeout (e.g. 5s); defaults to http.timeout")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}
