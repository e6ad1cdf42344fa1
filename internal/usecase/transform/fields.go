package transform

import "sort"

// sparse collects selected array positions while several paths are merged.
type sparse map[int]any

// selectFields narrows v to the listed paths. Paths that do not match are
// omitted. A top-level array is projected element by element.
func selectFields(v any, paths [][]token) any {
	if arr, ok := v.([]any); ok && !startsWithIndex(paths) {
		out := make([]any, 0, len(arr))
		for _, el := range arr {
			out = append(out, selectFields(el, paths))
		}
		return out
	}

	switch v.(type) {
	case map[string]any, []any:
	default:
		// Scalars have nothing to narrow.
		return v
	}

	var acc any
	for _, toks := range paths {
		picked, ok := pick(v, toks)
		if !ok {
			continue
		}
		acc = merge(acc, picked)
	}
	if acc == nil {
		if _, isArr := v.([]any); isArr {
			return []any{}
		}
		return map[string]any{}
	}
	return finalize(acc)
}

func startsWithIndex(paths [][]token) bool {
	for _, p := range paths {
		if len(p) > 0 && p[0].kind != tokKey {
			return true
		}
	}
	return false
}

// pick returns the skeleton of v that contains only the value at toks.
func pick(v any, toks []token) (any, bool) {
	if len(toks) == 0 {
		return deepCopy(v), true
	}

	t, rest := toks[0], toks[1:]
	switch t.kind {
	case tokKey:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		child, ok := m[t.key]
		if !ok {
			return nil, false
		}
		sub, ok := pick(child, rest)
		if !ok {
			return nil, false
		}
		return map[string]any{t.key: sub}, true

	case tokIndex:
		arr, ok := v.([]any)
		if !ok || t.index >= len(arr) {
			return nil, false
		}
		sub, ok := pick(arr[t.index], rest)
		if !ok {
			return nil, false
		}
		return sparse{t.index: sub}, true

	default:
		arr, ok := v.([]any)
		if !ok {
			return nil, false
		}
		out := sparse{}
		for i, el := range arr {
			if sub, ok := pick(el, rest); ok {
				out[i] = sub
			}
		}
		return out, true
	}
}

// merge folds b into a. A plain array only comes from a whole-value pick, so
// it already holds anything a sparse selection of the same array could add.
func merge(a, b any) any {
	if a == nil {
		return b
	}
	switch at := a.(type) {
	case []any:
		return at
	case map[string]any:
		if bt, ok := b.(map[string]any); ok {
			for k, bv := range bt {
				at[k] = merge(at[k], bv)
			}
			return at
		}
	case sparse:
		if bt, ok := b.(sparse); ok {
			for i, bv := range bt {
				at[i] = merge(at[i], bv)
			}
			return at
		}
	}
	return b
}

// finalize turns sparse selections into plain arrays, keeping index order.
func finalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, vv := range t {
			t[k] = finalize(vv)
		}
		return t
	case sparse:
		idx := make([]int, 0, len(t))
		for i := range t {
			idx = append(idx, i)
		}
		sort.Ints(idx)
		out := make([]any, 0, len(idx))
		for _, i := range idx {
			out = append(out, finalize(t[i]))
		}
		return out
	default:
		return v
	}
}
