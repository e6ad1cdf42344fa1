package transform

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokKey tokenKind = iota
	tokIndex
	tokWildcard
)

type token struct {
	kind  tokenKind
	key   string
	index int
}

func (t token) String() string {
	switch t.kind {
	case tokIndex:
		return fmt.Sprintf("[%d]", t.index)
	case tokWildcard:
		return "[*]"
	default:
		return t.key
	}
}

// parsePath splits "items[0].user.name" or "data[*].id" into tokens.
func parsePath(p string) ([]token, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return nil, fmt.Errorf("empty path")
	}

	var out []token
	for _, seg := range strings.Split(p, ".") {
		if seg == "" {
			return nil, fmt.Errorf("path %q: empty segment", p)
		}

		name := seg
		rest := ""
		if i := strings.IndexByte(seg, '['); i >= 0 {
			name, rest = seg[:i], seg[i:]
		}
		if name != "" {
			out = append(out, token{kind: tokKey, key: name})
		}

		for rest != "" {
			if rest[0] != '[' {
				return nil, fmt.Errorf("path %q: unexpected %q", p, rest)
			}
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("path %q: unclosed bracket", p)
			}
			inner := strings.TrimSpace(rest[1:end])
			if inner == "*" {
				out = append(out, token{kind: tokWildcard})
			} else {
				n, err := strconv.Atoi(inner)
				if err != nil || n < 0 {
					return nil, fmt.Errorf("path %q: invalid index %q", p, inner)
				}
				out = append(out, token{kind: tokIndex, index: n})
			}
			rest = rest[end+1:]
		}
	}
	return out, nil
}

func hasWildcard(toks []token) bool {
	for _, t := range toks {
		if t.kind == tokWildcard {
			return true
		}
	}
	return false
}

// lookup walks toks through v. Wildcards are not allowed here.
func lookup(v any, toks []token) (any, bool) {
	cur := v
	for _, t := range toks {
		switch t.kind {
		case tokKey:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			next, ok := m[t.key]
			if !ok {
				return nil, false
			}
			cur = next
		case tokIndex:
			arr, ok := cur.([]any)
			if !ok || t.index >= len(arr) {
				return nil, false
			}
			cur = arr[t.index]
		default:
			return nil, false
		}
	}
	return cur, true
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = deepCopy(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = deepCopy(vv)
		}
		return out
	default:
		return v
	}
}
