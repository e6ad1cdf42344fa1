package ports

import (
	"context"

	"github.com/aalvaropc/apix/internal/domain"
)

// EndpointCaller is the engine surface used by the CLI and the HTTP server.
type EndpointCaller interface {
	Call(ctx context.Context, req domain.CallRequest) domain.CallResult
}

// BatchRunner invokes one endpoint sequentially with several argument sets.
type BatchRunner interface {
	Run(ctx context.Context, req domain.BatchRequest) domain.BatchResult
}
