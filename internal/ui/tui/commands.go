package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/apix/internal/domain"
)

const callTimeout = 2 * time.Minute

func cmdLoadServices(deps Deps) tea.Cmd {
	return func() tea.Msg {
		refs, err := deps.Services.ListServices(context.Background())
		return servicesLoadedMsg{refs: refs, err: err}
	}
}

func cmdLoadService(deps Deps, name string) tea.Cmd {
	return func() tea.Msg {
		svc, err := deps.Services.LoadService(context.Background(), name)
		return serviceLoadedMsg{svc: svc, err: err}
	}
}

// cmdCall runs one call without arguments; endpoints that need parameters
// are reached through an alias.
func cmdCall(deps Deps, service, endpoint string, noCache bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()

		deps.Logger.Debug("tui.call", "service", service, "endpoint", endpoint, "no_cache", noCache)

		res := deps.Caller.Call(ctx, domain.CallRequest{
			Service:  service,
			Endpoint: endpoint,
			Args:     domain.Args{},
			Options:  domain.CallOptions{Debug: deps.Debug, NoCache: noCache},
		})
		return callDoneMsg{target: service + "/" + endpoint, res: res}
	}
}
