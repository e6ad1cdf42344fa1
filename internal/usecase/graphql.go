package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/aalvaropc/apix/internal/domain"
)

// graphqlOperation returns the operation type (query, mutation, subscription)
// of the selected operation in the document.
func graphqlOperation(spec *domain.GraphQLSpec) (ast.Operation, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "endpoint", Input: spec.Query})
	if err != nil {
		return "", &domain.OpError{
			Op:   "graphql.parse",
			Kind: domain.KindConfigInvalid,
			Err:  fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err),
		}
	}
	if len(doc.Operations) == 0 {
		return "", &domain.OpError{
			Op:   "graphql.parse",
			Kind: domain.KindConfigInvalid,
			Err:  fmt.Errorf("%w: document has no operations", domain.ErrInvalidConfig),
		}
	}

	name := strings.TrimSpace(spec.OperationName)
	if name == "" {
		if len(doc.Operations) > 1 {
			return "", &domain.OpError{
				Op:   "graphql.parse",
				Kind: domain.KindConfigInvalid,
				Err:  fmt.Errorf("%w: operationName is required when the document has several operations", domain.ErrInvalidConfig),
			}
		}
		return doc.Operations[0].Operation, nil
	}

	op := doc.Operations.ForName(name)
	if op == nil {
		return "", &domain.OpError{
			Op:   "graphql.parse",
			Kind: domain.KindConfigInvalid,
			Err:  fmt.Errorf("%w: operation %q not found in document", domain.ErrInvalidConfig, name),
		}
	}
	return op.Operation, nil
}

// graphqlEnvelope builds the POST body {query, variables, operationName}.
func graphqlEnvelope(spec *domain.GraphQLSpec, vars map[string]any) map[string]any {
	if vars == nil {
		vars = map[string]any{}
	}
	env := map[string]any{
		"query":     spec.Query,
		"variables": vars,
	}
	if name := strings.TrimSpace(spec.OperationName); name != "" {
		env["operationName"] = name
	}
	return env
}

// unwrapGraphQL returns the data member of a response envelope. A non-empty
// errors array fails the call even though the HTTP status was 2xx.
func unwrapGraphQL(status int, payload any) (any, error) {
	env, ok := payload.(map[string]any)
	if !ok {
		return nil, &domain.OpError{
			Op:   "graphql.response",
			Kind: domain.KindAPIResponseInvalid,
			Err:  errors.New("response is not a GraphQL envelope"),
		}
	}

	if errs, ok := env["errors"].([]any); ok && len(errs) > 0 {
		return nil, &domain.OpError{
			Op:   "graphql.response",
			Kind: domain.KindAPIRequestFailed,
			Err:  fmt.Errorf("graphql: %s", firstMessage(errs)),
			Details: map[string]any{
				"status": status,
				"errors": errs,
			},
		}
	}
	return env["data"], nil
}

func firstMessage(errs []any) string {
	if m, ok := errs[0].(map[string]any); ok {
		if msg, ok := m["message"].(string); ok && msg != "" {
			if len(errs) > 1 {
				return fmt.Sprintf("%s (and %d more)", msg, len(errs)-1)
			}
			return msg
		}
	}
	return fmt.Sprintf("%d error(s)", len(errs))
}
