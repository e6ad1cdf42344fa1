package serviceconfig

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aalvaropc/apix/internal/domain"
)

// Validator runs structural (tag) checks on the decoded file and semantic
// checks on the mapped service.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	// Report camelCase YAML names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates the decoded DTO.
func (cv *Validator) Struct(path string, ys *YAMLService) error {
	err := cv.validate.Struct(ys)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &domain.OpError{Op: "serviceconfig.validate", Kind: domain.KindConfigInvalid, Path: path, Err: err}
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", fieldName(e.Namespace()), ruleName(e)))
	}
	return &domain.OpError{
		Op:   "serviceconfig.validate",
		Kind: domain.KindConfigInvalid,
		Path: path,
		Err:  fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(msgs, "; ")),
	}
}

// Semantics checks rules that span fields: unique names, alias targets and
// which endpoints may be cached.
func (cv *Validator) Semantics(svc domain.ServiceConfig) error {
	fail := func(format string, args ...any) error {
		return &domain.OpError{
			Op:   "serviceconfig.validate",
			Kind: domain.KindConfigInvalid,
			Path: svc.Source,
			Err:  fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...)),
		}
	}

	names := map[string]struct{}{}
	for _, ep := range svc.Endpoints {
		if _, dup := names[ep.Name]; dup {
			return fail("duplicate endpoint name %q", ep.Name)
		}
		names[ep.Name] = struct{}{}

		if ep.CacheTTL > 0 && ep.Method != domain.MethodGet && !ep.IsGraphQL() {
			return fail("endpoint %q: cacheTTL is only allowed on GET or GraphQL endpoints", ep.Name)
		}
		if ep.IsGraphQL() && svc.GraphQLEndpoint == "" && ep.Path == "" {
			return fail("endpoint %q: GraphQL endpoints need graphqlEndpoint on the service or a path", ep.Name)
		}
	}

	aliases := map[string]struct{}{}
	for _, al := range svc.Aliases {
		if _, dup := aliases[al.Name]; dup {
			return fail("duplicate alias name %q", al.Name)
		}
		if _, clash := names[al.Name]; clash {
			return fail("alias %q has the same name as an endpoint", al.Name)
		}
		aliases[al.Name] = struct{}{}

		if _, ok := svc.Endpoint(al.Endpoint); !ok {
			return fail("alias %q references unknown endpoint %q", al.Name, al.Endpoint)
		}
	}

	if a := svc.Auth; a != nil && a.Type == domain.AuthBearer && a.Location == domain.AuthInQuery {
		return fail("authentication: location query is only supported for apikey")
	}
	return nil
}

// fieldName drops the root struct name: "YAMLService.endpoints[0].name" -> "endpoints[0].name".
func fieldName(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleName(e validator.FieldError) string {
	if e.Param() != "" {
		return e.Tag() + "=" + e.Param()
	}
	return e.Tag()
}
