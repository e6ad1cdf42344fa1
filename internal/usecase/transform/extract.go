package transform

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"
)

type extractRule struct {
	name string
	eval gval.Evaluable
}

func compileExtract(rules map[string]string) ([]extractRule, error) {
	names := make([]string, 0, len(rules))
	for k := range rules {
		names = append(names, k)
	}
	sort.Strings(names) // stable output for tests

	out := make([]extractRule, 0, len(names))
	for _, name := range names {
		expr := strings.TrimSpace(rules[name])
		if expr == "" {
			return nil, fmt.Errorf("extract %q: empty jsonpath expression", name)
		}
		eval, err := jsonpath.New(expr)
		if err != nil {
			return nil, fmt.Errorf("extract %q (%s): %w", name, expr, err)
		}
		out = append(out, extractRule{name: name, eval: eval})
	}
	return out, nil
}

// runExtract builds a new object keyed by rule name. Rules that select
// nothing are left out.
func runExtract(ctx context.Context, rules []extractRule, payload any) map[string]any {
	out := make(map[string]any, len(rules))
	for _, r := range rules {
		val, err := r.eval(ctx, payload)
		if err != nil || val == nil {
			continue
		}
		out[r.name] = val
	}
	return out
}
