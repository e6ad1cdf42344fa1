package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/apix/internal/domain"
)

func servicesCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "services",
		Short: "Inspect configured services",
	}

	c.AddCommand(servicesListCmd(opts), servicesShowCmd(opts))
	return c
}

func servicesListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List services from the global and local roots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEngine(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = e.close() }()

			refs, err := e.services.ListServices(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintln(w, "(no services found)")
				return nil
			}
			th := defaultTheme()
			for _, r := range refs {
				fmt.Fprintf(w, "- %s  %s\n", th.Title.Render(r.Name), th.Subtle.Render(fmt.Sprintf("[%s] %s", r.Scope, r.Path)))
			}
			return nil
		},
	}
}

func servicesShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <service>",
		Short: "Show the endpoints and aliases of a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = e.close() }()

			svc, err := e.services.LoadService(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printService(cmd.OutOrStdout(), svc)
			return nil
		},
	}
}

func printService(w io.Writer, svc domain.ServiceConfig) {
	th := defaultTheme()

	fmt.Fprintln(w, th.Title.Render(svc.Name))
	if svc.Description != "" {
		fmt.Fprintln(w, th.Subtle.Render(svc.Description))
	}
	fmt.Fprintf(w, "base: %s\n", svc.BaseURL)
	if svc.GraphQLEndpoint != "" {
		fmt.Fprintf(w, "graphql: %s\n", svc.GraphQLEndpoint)
	}
	if svc.Auth != nil {
		fmt.Fprintf(w, "auth: %s\n", svc.Auth.Type)
	}
	fmt.Fprintf(w, "source: %s\n\n", svc.Source)

	fmt.Fprintln(w, th.Title.Render("Endpoints"))
	for _, ep := range svc.Endpoints {
		target := ep.Path
		if ep.IsGraphQL() {
			target = "(graphql)"
		}
		line := fmt.Sprintf("  %-6s %-28s %s", ep.Method, ep.Name, target)
		if ep.CacheTTL > 0 {
			line += th.Subtle.Render(fmt.Sprintf("  cache %ds", ep.CacheTTL))
		}
		fmt.Fprintln(w, line)
	}

	if len(svc.Aliases) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, th.Title.Render("Aliases"))
	for _, al := range svc.Aliases {
		keys := al.Args.Keys()
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+al.Args[k].String())
		}
		fmt.Fprintf(w, "  %-20s -> %s %v\n", al.Name, al.Endpoint, parts)
	}
}
