package tui

import (
	"log/slog"

	"github.com/aalvaropc/apix/internal/ports"
)

type Deps struct {
	Services ports.ServiceLoader
	Caller   ports.EndpointCaller

	Logger *slog.Logger
	Debug  bool
}
