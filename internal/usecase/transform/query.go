package transform

import (
	"fmt"

	"github.com/jmespath/go-jmespath"
)

func compileQuery(expr string) (*jmespath.JMESPath, error) {
	q, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("jmespath %q: %w", expr, err)
	}
	return q, nil
}

// runQuery returns nil when the expression selects nothing, the same as a
// JMESPath null.
func runQuery(q *jmespath.JMESPath, payload any) any {
	v, err := q.Search(payload)
	if err != nil {
		return nil
	}
	return v
}
