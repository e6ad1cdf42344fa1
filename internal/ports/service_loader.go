package ports

import (
	"context"

	"github.com/aalvaropc/apix/internal/domain"
)

// ServiceLoader loads service definitions from a source (e.g., filesystem).
type ServiceLoader interface {
	LoadService(ctx context.Context, name string) (domain.ServiceConfig, error)
	ListServices(ctx context.Context) ([]domain.ServiceRef, error)
}
