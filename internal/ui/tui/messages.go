package tui

import "github.com/aalvaropc/apix/internal/domain"

type servicesLoadedMsg struct {
	refs []domain.ServiceRef
	err  error
}

type serviceLoadedMsg struct {
	svc domain.ServiceConfig
	err error
}

type callDoneMsg struct {
	target string
	res    domain.CallResult
}
