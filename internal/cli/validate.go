package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/usecase"
)

func validateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [service]",
		Short: "Validate service files and their placeholders (no HTTP)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = e.close() }()

			names := args
			if len(names) == 0 {
				refs, err := e.services.ListServices(cmd.Context())
				if err != nil {
					return err
				}
				for _, r := range refs {
					names = append(names, r.Name)
				}
			}

			uc := usecase.NewValidateService(e.services, usecase.WithValidateResolver(e.env.Resolver()))
			th := defaultTheme()
			w := cmd.OutOrStdout()

			failed := 0
			for _, name := range names {
				if err := uc.Execute(cmd.Context(), name); err != nil {
					failed++
					fmt.Fprintf(w, "%s %s  %s: %s\n", th.Fail.Render("✗"), name, domain.KindOf(err), err)
					continue
				}
				fmt.Fprintf(w, "%s %s\n", th.OK.Render("✓"), name)
			}

			if failed > 0 {
				return fmt.Errorf("%d service(s) failed validation", failed)
			}
			return nil
		},
	}
}
