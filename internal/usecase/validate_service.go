package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/ports"
	"github.com/aalvaropc/apix/internal/usecase/transform"
)

type ValidateService struct {
	services ports.ServiceLoader
	resolver *domain.EnvResolver
}

type ValidateOption func(*ValidateService)

func WithValidateResolver(r *domain.EnvResolver) ValidateOption {
	return func(uc *ValidateService) {
		if r != nil {
			uc.resolver = r
		}
	}
}

func NewValidateService(sl ports.ServiceLoader, opts ...ValidateOption) *ValidateService {
	uc := &ValidateService{
		services: sl,
		resolver: domain.NewEnvResolver(nil),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute checks a service without performing HTTP calls: the file must load,
// every placeholder must resolve, path templates must be well formed, and
// transforms and GraphQL documents must compile.
func (uc *ValidateService) Execute(ctx context.Context, name string) error {
	svc, err := uc.services.LoadService(ctx, name)
	if err != nil {
		return err
	}

	if _, err := uc.resolver.ResolveService(svc); err != nil {
		return err
	}

	for _, ep := range svc.Endpoints {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkPathTemplate(ep.Path); err != nil {
			return endpointErr(svc, ep, err)
		}
		if _, err := transform.Compile(ep.Transform); err != nil {
			return endpointErr(svc, ep, err)
		}
		if ep.IsGraphQL() {
			if _, err := graphqlOperation(ep.GraphQL); err != nil {
				return endpointErr(svc, ep, err)
			}
		}
	}

	return nil
}

// checkPathTemplate rejects unbalanced, nested or empty {param} tokens.
func checkPathTemplate(path string) error {
	open := -1
	for i, r := range path {
		switch r {
		case '{':
			if open >= 0 {
				return fmt.Errorf("nested '{' at offset %d", i)
			}
			open = i
		case '}':
			if open < 0 {
				return fmt.Errorf("unexpected '}' at offset %d", i)
			}
			if strings.TrimSpace(path[open+1:i]) == "" {
				return fmt.Errorf("empty parameter at offset %d", open)
			}
			open = -1
		}
	}
	if open >= 0 {
		return fmt.Errorf("unclosed '{' at offset %d", open)
	}
	return nil
}

func endpointErr(svc domain.ServiceConfig, ep domain.EndpointConfig, err error) error {
	kind := domain.KindConfigInvalid
	details := map[string]any(nil)
	var oe *domain.OpError
	if errors.As(err, &oe) {
		kind = oe.Kind
		details = oe.Details
	}
	return &domain.OpError{
		Op:      "validate.service",
		Kind:    kind,
		Path:    svc.Source,
		Err:     fmt.Errorf("endpoint %q: %w", ep.Name, err),
		Details: details,
	}
}
