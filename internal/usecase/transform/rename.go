package transform

import (
	"fmt"

	"github.com/aalvaropc/apix/internal/domain"
)

type renameRule struct {
	from []token
	to   []token
}

// compileRename keeps the declared order; a later rule sees earlier results.
func compileRename(rules []domain.RenameRule) ([]renameRule, error) {
	out := make([]renameRule, 0, len(rules))
	for _, r := range rules {
		from, to := r.From, r.To
		ft, err := parsePath(from)
		if err != nil {
			return nil, err
		}
		tt, err := parsePath(to)
		if err != nil {
			return nil, err
		}
		if ft[len(ft)-1].kind != tokKey || tt[len(tt)-1].kind != tokKey {
			return nil, fmt.Errorf("rename %q -> %q: paths must end in a field name", from, to)
		}
		if hasWildcard(ft) || hasWildcard(tt) {
			if err := sameWildcardPrefix(ft, tt); err != nil {
				return nil, fmt.Errorf("rename %q -> %q: %w", from, to, err)
			}
		}
		out = append(out, renameRule{from: ft, to: tt})
	}
	return out, nil
}

func sameWildcardPrefix(a, b []token) error {
	wa, wb := firstWildcard(a), firstWildcard(b)
	if wa < 0 || wb < 0 || wa != wb {
		return fmt.Errorf("wildcard must appear at the same position on both sides")
	}
	for i := 0; i < wa; i++ {
		if a[i] != b[i] {
			return fmt.Errorf("paths must share the prefix before [*]")
		}
	}
	return nil
}

func firstWildcard(toks []token) int {
	for i, t := range toks {
		if t.kind == tokWildcard {
			return i
		}
	}
	return -1
}

// applyRename mutates v in place; callers pass a private copy.
func applyRename(v any, rules []renameRule) any {
	for _, r := range rules {
		v = renameOne(v, r.from, r.to)
	}
	return v
}

func renameOne(v any, from, to []token) any {
	if w := firstWildcard(from); w >= 0 {
		parent, ok := lookup(v, from[:w])
		if !ok {
			return v
		}
		arr, ok := parent.([]any)
		if !ok {
			return v
		}
		for i := range arr {
			arr[i] = renameOne(arr[i], from[w+1:], to[w+1:])
		}
		return v
	}

	val, ok := lookup(v, from)
	if !ok || !settable(v, to) {
		return v
	}
	remove(v, from)
	set(v, to, val)
	return v
}

// remove deletes the field at toks and prunes parent objects it left empty.
func remove(v any, toks []token) {
	if len(toks) == 0 {
		return
	}
	parent, ok := lookup(v, toks[:len(toks)-1])
	if !ok {
		return
	}
	m, ok := parent.(map[string]any)
	if !ok {
		return
	}
	delete(m, toks[len(toks)-1].key)

	// Walk up while the emptied container is an object field.
	for depth := len(toks) - 1; depth > 0; depth-- {
		node, _ := lookup(v, toks[:depth])
		nm, ok := node.(map[string]any)
		if !ok || len(nm) > 0 || toks[depth-1].kind != tokKey {
			return
		}
		gp, _ := lookup(v, toks[:depth-1])
		gm, ok := gp.(map[string]any)
		if !ok {
			return
		}
		delete(gm, toks[depth-1].key)
	}
}

// settable reports whether set can write at toks without clobbering data.
func settable(root any, toks []token) bool {
	cur := root
	for i, t := range toks {
		switch t.kind {
		case tokKey:
			m, ok := cur.(map[string]any)
			if !ok {
				return false
			}
			next, ok := m[t.key]
			if !ok || next == nil {
				// Missing objects are created, missing arrays are not.
				for _, rest := range toks[i+1:] {
					if rest.kind != tokKey {
						return false
					}
				}
				return true
			}
			cur = next
		case tokIndex:
			arr, ok := cur.([]any)
			if !ok || t.index >= len(arr) {
				return false
			}
			cur = arr[t.index]
		default:
			return false
		}
	}
	return true
}

// set writes val at toks, creating intermediate objects.
func set(root any, toks []token, val any) {
	cur := root
	for i, t := range toks {
		last := i == len(toks)-1
		switch t.kind {
		case tokKey:
			m, ok := cur.(map[string]any)
			if !ok {
				return
			}
			if last {
				m[t.key] = val
				return
			}
			next, ok := m[t.key]
			if !ok || next == nil {
				next = map[string]any{}
				m[t.key] = next
			}
			cur = next
		case tokIndex:
			arr, ok := cur.([]any)
			if !ok || t.index >= len(arr) {
				return
			}
			cur = arr[t.index]
		default:
			return
		}
	}
}
