// Package tui is an interactive browser over configured services: pick a
// service, pick an endpoint or alias, see the result.
package tui

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/apix/internal/domain"
)

type screen int

const (
	screenServices screen = iota
	screenEndpoints
	screenResult
)

const maxResultLines = 40

type serviceItem struct {
	ref domain.ServiceRef
}

func (s serviceItem) Title() string       { return s.ref.Name }
func (s serviceItem) Description() string { return fmt.Sprintf("[%s] %s", s.ref.Scope, s.ref.Path) }
func (s serviceItem) FilterValue() string { return s.ref.Name }

type endpointItem struct {
	name  string
	desc  string
	alias bool
}

func (e endpointItem) Title() string {
	if e.alias {
		return e.name + " (alias)"
	}
	return e.name
}
func (e endpointItem) Description() string { return e.desc }
func (e endpointItem) FilterValue() string { return e.name }

type model struct {
	theme Theme
	deps  Deps

	scr       screen
	services  list.Model
	endpoints list.Model

	service    string
	lastTarget string
	lastCall   string
	result     string

	busy   bool
	status string
}

func Run(deps Deps) error {
	p := tea.NewProgram(wrapSafe(newModel(deps), deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	services := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	services.Title = "Services"
	services.SetShowStatusBar(false)
	services.SetShowHelp(false)

	endpoints := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	endpoints.SetShowStatusBar(false)
	endpoints.SetShowHelp(false)

	return model{
		theme:     DefaultTheme(),
		deps:      deps,
		scr:       screenServices,
		services:  services,
		endpoints: endpoints,
		busy:      true,
	}
}

func (m model) Init() tea.Cmd { return cmdLoadServices(m.deps) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.services.SetSize(msg.Width-4, msg.Height-10)
		m.endpoints.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case servicesLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = userMessage(msg.err)
			m.deps.Logger.Warn("tui.services.failed", "err", msg.err)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.refs))
		for _, r := range msg.refs {
			items = append(items, serviceItem{ref: r})
		}
		m.status = fmt.Sprintf("%d service(s)", len(items))
		return m, m.services.SetItems(items)

	case serviceLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = userMessage(msg.err)
			m.deps.Logger.Warn("tui.service.failed", "service", m.service, "err", msg.err)
			return m, nil
		}
		m.scr = screenEndpoints
		m.status = ""
		m.endpoints.Title = msg.svc.Name
		m.endpoints.ResetFilter()
		return m, m.endpoints.SetItems(endpointItems(msg.svc))

	case callDoneMsg:
		m.busy = false
		m.scr = screenResult
		m.result = renderResult(m.theme, msg.target, msg.res)
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if m.filtering() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			if m.scr == screenServices {
				return m, tea.Quit
			}
			m.scr = screenServices
			return m, nil

		case "esc", "b":
			switch m.scr {
			case screenResult:
				m.scr = screenEndpoints
			case screenEndpoints:
				m.scr = screenServices
			}
			return m, nil

		case "enter":
			if m.busy {
				return m, nil
			}
			return m.selectCurrent()

		case "r":
			// Re-run the last call, bypassing the cache.
			if m.scr == screenResult && !m.busy && m.lastCall != "" {
				m.busy = true
				m.status = "calling " + m.lastTarget + " (no cache)…"
				return m, cmdCall(m.deps, m.service, m.lastCall, true)
			}
		}
	}

	var cmd tea.Cmd
	switch m.scr {
	case screenServices:
		m.services, cmd = m.services.Update(msg)
	case screenEndpoints:
		m.endpoints, cmd = m.endpoints.Update(msg)
	}
	return m, cmd
}

func (m model) filtering() bool {
	switch m.scr {
	case screenServices:
		return m.services.FilterState() == list.Filtering
	case screenEndpoints:
		return m.endpoints.FilterState() == list.Filtering
	}
	return false
}

func (m model) selectCurrent() (tea.Model, tea.Cmd) {
	switch m.scr {
	case screenServices:
		it, ok := m.services.SelectedItem().(serviceItem)
		if !ok {
			return m, nil
		}
		m.service = it.ref.Name
		m.busy = true
		m.status = "loading " + it.ref.Name + "…"
		return m, cmdLoadService(m.deps, it.ref.Name)

	case screenEndpoints:
		it, ok := m.endpoints.SelectedItem().(endpointItem)
		if !ok {
			return m, nil
		}
		m.lastCall = it.name
		m.lastTarget = m.service + "/" + it.name
		m.busy = true
		m.status = "calling " + m.lastTarget + "…"
		return m, cmdCall(m.deps, m.service, it.name, false)
	}
	return m, nil
}

func endpointItems(svc domain.ServiceConfig) []list.Item {
	items := make([]list.Item, 0, len(svc.Endpoints)+len(svc.Aliases))
	for _, ep := range svc.Endpoints {
		desc := string(ep.Method) + " " + ep.Path
		if ep.IsGraphQL() {
			desc = "GraphQL"
		}
		if ep.Description != "" {
			desc += "  " + ep.Description
		}
		items = append(items, endpointItem{name: ep.Name, desc: desc})
	}
	for _, al := range svc.Aliases {
		items = append(items, endpointItem{name: al.Name, desc: "→ " + al.Endpoint, alias: true})
	}
	return items
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("apix") + "\n" +
		m.theme.Subtitle.Render("browse services and call endpoints") + "\n"

	status := ""
	if m.status != "" {
		status = "\n" + m.theme.Help.Render(clampString(m.status, 120))
	}

	switch m.scr {
	case screenServices:
		help := m.theme.Help.Render("↑/↓ navigate • enter open • / search • q quit")
		return wrap.Render(header + "\n" + m.theme.Card.Render(m.services.View()) + status + "\n" + help)

	case screenEndpoints:
		help := m.theme.Help.Render("enter call • / search • esc back • q home")
		return wrap.Render(header + "\n" + m.theme.Card.Render(m.endpoints.View()) + status + "\n" + help)

	case screenResult:
		help := m.theme.Help.Render("r re-run without cache • esc back • q home")
		return wrap.Render(header + "\n" + m.theme.Card.Render(clampLines(m.result, maxResultLines)) + status + "\n" + help)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
