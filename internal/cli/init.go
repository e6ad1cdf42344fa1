package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/apix/internal/infra/fsworkspace"
)

func initCmd() *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a project-local .apix root with a sample service",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			} else if wd, err := os.Getwd(); err == nil {
				dir = wd
			}

			root, err := fsworkspace.NewInitializer().Init(dir, force)
			if err != nil {
				return err
			}
			th := defaultTheme()
			fmt.Fprintf(cmd.OutOrStdout(), "%s initialized %s\n", th.OK.Render("✓"), root)
			fmt.Fprintln(cmd.OutOrStdout(), th.Subtle.Render("try: apix call jsonplaceholder firstPost"))
			return nil
		},
	}

	c.Flags().BoolVar(&force, "force", false, "overwrite existing template files")
	return c
}
