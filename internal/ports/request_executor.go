package ports

import (
	"context"
	"time"

	"github.com/aalvaropc/apix/internal/domain"
)

// RequestExecutor issues one HTTP request and normalizes the outcome.
type RequestExecutor interface {
	Execute(ctx context.Context, req domain.HTTPRequest, timeout time.Duration) (domain.HTTPResponse, error)
}
