package serviceconfig

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/apix/internal/domain"
)

// MapService converts a decoded file into a domain.ServiceConfig.
// Placeholders are left untouched; resolution happens per call.
func MapService(path string, ys YAMLService) (domain.ServiceConfig, error) {
	svc := domain.ServiceConfig{
		Name:            strings.TrimSpace(ys.ServiceName),
		Description:     ys.Description,
		BaseURL:         strings.TrimSpace(ys.BaseURL),
		GraphQLEndpoint: strings.TrimSpace(ys.GraphQLEndpoint),
		Endpoints:       make([]domain.EndpointConfig, 0, len(ys.Endpoints)),
		Aliases:         make([]domain.AliasConfig, 0, len(ys.Aliases)),
		Source:          path,
	}

	if a := ys.Authentication; a != nil {
		svc.Auth = &domain.AuthConfig{
			Type:       domain.AuthType(strings.ToLower(strings.TrimSpace(a.Type))),
			Token:      a.Token,
			Header:     strings.TrimSpace(a.Header),
			Location:   domain.AuthLocation(strings.ToLower(strings.TrimSpace(a.Location))),
			QueryParam: strings.TrimSpace(a.QueryParam),
		}
		if svc.Auth.Location == "" {
			svc.Auth.Location = domain.AuthInHeader
		}
	}

	for i, ye := range ys.Endpoints {
		field := fmt.Sprintf("endpoints[%d]", i)
		ep, err := mapEndpoint(path, field, ye)
		if err != nil {
			return domain.ServiceConfig{}, err
		}
		svc.Endpoints = append(svc.Endpoints, ep)
	}

	for i, ya := range ys.Aliases {
		args, err := domain.ArgsFromAny(ya.Args)
		if err != nil {
			return domain.ServiceConfig{}, invalidField(path, fmt.Sprintf("aliases[%d].args", i), err.Error())
		}
		svc.Aliases = append(svc.Aliases, domain.AliasConfig{
			Name:     strings.TrimSpace(ya.Name),
			Endpoint: strings.TrimSpace(ya.Endpoint),
			Args:     args,
		})
	}

	return svc, nil
}

func mapEndpoint(path, field string, ye YAMLEndpoint) (domain.EndpointConfig, error) {
	ep := domain.EndpointConfig{
		Name:        strings.TrimSpace(ye.Name),
		Description: ye.Description,
		Path:        strings.TrimSpace(ye.Path),
		CacheTTL:    ye.CacheTTL,
		Headers:     domain.Headers(ye.Headers),
	}
	if ep.Headers == nil {
		ep.Headers = domain.Headers{}
	}

	if strings.TrimSpace(ye.Query) != "" {
		ep.GraphQL = &domain.GraphQLSpec{
			Query:         ye.Query,
			OperationName: strings.TrimSpace(ye.OperationName),
		}
	}

	switch {
	case strings.TrimSpace(ye.Method) != "":
		m, ok := domain.ParseMethod(ye.Method)
		if !ok {
			return domain.EndpointConfig{}, invalidField(path, field+".method", fmt.Sprintf("unsupported method %q", ye.Method))
		}
		ep.Method = m
	case ep.GraphQL != nil:
		ep.Method = domain.MethodPost
	default:
		return domain.EndpointConfig{}, invalidField(path, field+".method", "method is required")
	}

	if ep.GraphQL == nil && ep.Path == "" {
		return domain.EndpointConfig{}, invalidField(path, field+".path", "path is required")
	}

	if len(ye.DefaultParams) > 0 {
		args, err := domain.ArgsFromAny(ye.DefaultParams)
		if err != nil {
			return domain.EndpointConfig{}, invalidField(path, field+".defaultParams", err.Error())
		}
		ep.DefaultParams = args
	}

	for _, yt := range ye.Transform {
		tc := domain.TransformConfig{
			Query:   strings.TrimSpace(yt.Query),
			Extract: yt.Extract,
			Fields:  yt.Fields,
		}
		for _, rr := range yt.Rename {
			tc.Rename = append(tc.Rename, domain.RenameRule{From: rr.From, To: rr.To})
		}
		if tc.IsZero() {
			continue
		}
		ep.Transform = append(ep.Transform, tc)
	}

	return ep, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "serviceconfig.map",
		Kind: domain.KindConfigInvalid,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
