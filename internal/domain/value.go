package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ValueKind enumerates the shapes a runtime argument can take.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueStringArray
	ValueNumber
	ValueBool
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueStringArray:
		return "string_array"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a runtime argument: String | StringArray | Number | Bool.
// The zero Value is the empty string.
type Value struct {
	kind ValueKind
	str  string
	strs []string
	num  float64
	b    bool
}

// exactNumber keeps raw as the textual form when float64 cannot represent it
// exactly, so large integer IDs survive unchanged.
func exactNumber(raw string, n float64) Value {
	if strconv.FormatFloat(n, 'f', -1, 64) == raw {
		return NumberValue(n)
	}
	return Value{kind: ValueNumber, num: n, str: raw}
}

func StringValue(s string) Value { return Value{kind: ValueString, str: s} }

func ArrayValue(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{kind: ValueStringArray, strs: cp}
}

func NumberValue(n float64) Value { return Value{kind: ValueNumber, num: n} }

func BoolValue(b bool) Value { return Value{kind: ValueBool, b: b} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsArray() bool { return v.kind == ValueStringArray }

// String coerces the value to its textual form. Arrays are comma-joined.
func (v Value) String() string {
	switch v.kind {
	case ValueStringArray:
		return strings.Join(v.strs, ",")
	case ValueNumber:
		if v.str != "" {
			return v.str
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

// Strings returns the value as a list; scalars become a single element.
func (v Value) Strings() []string {
	if v.kind == ValueStringArray {
		out := make([]string, len(v.strs))
		copy(out, v.strs)
		return out
	}
	return []string{v.String()}
}

// Interface returns the JSON-friendly Go value (string, []any, float64, bool).
// Numbers float64 cannot hold exactly come back as json.Number.
func (v Value) Interface() any {
	switch v.kind {
	case ValueStringArray:
		out := make([]any, 0, len(v.strs))
		for _, s := range v.strs {
			out = append(out, s)
		}
		return out
	case ValueNumber:
		if v.str != "" {
			return json.Number(v.str)
		}
		return v.num
	case ValueBool:
		return v.b
	default:
		return v.str
	}
}

// Equal compares kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueStringArray:
		if len(v.strs) != len(o.strs) {
			return false
		}
		for i := range v.strs {
			if v.strs[i] != o.strs[i] {
				return false
			}
		}
		return true
	case ValueNumber:
		return v.num == o.num && v.str == o.str
	case ValueBool:
		return v.b == o.b
	default:
		return v.str == o.str
	}
}

// MapString rewrites the textual content of string and array values; numbers and bools pass through.
func (v Value) MapString(fn func(string) (string, error)) (Value, error) {
	switch v.kind {
	case ValueString:
		s, err := fn(v.str)
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case ValueStringArray:
		out := make([]string, 0, len(v.strs))
		for _, s := range v.strs {
			rs, err := fn(s)
			if err != nil {
				return Value{}, err
			}
			out = append(out, rs)
		}
		return Value{kind: ValueStringArray, strs: out}, nil
	default:
		return v, nil
	}
}

// ValueFromAny converts a decoded YAML/JSON scalar or list into a Value.
// Nested objects are rejected.
func ValueFromAny(in any) (Value, error) {
	switch t := in.(type) {
	case nil:
		return StringValue(""), nil
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case int:
		return exactNumber(strconv.Itoa(t), float64(t)), nil
	case int64:
		return exactNumber(strconv.FormatInt(t, 10), float64(t)), nil
	case uint64:
		return exactNumber(strconv.FormatUint(t, 10), float64(t)), nil
	case json.Number:
		n, err := strconv.ParseFloat(string(t), 64)
		if err != nil || math.IsInf(n, 0) {
			return Value{}, fmt.Errorf("number %q is not representable", string(t))
		}
		return exactNumber(string(t), n), nil
	case float32:
		return NumberValue(float64(t)), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return Value{}, fmt.Errorf("number %v is not representable", t)
		}
		return NumberValue(t), nil
	case []string:
		return ArrayValue(t...), nil
	case []any:
		items := make([]string, 0, len(t))
		for i, it := range t {
			iv, err := ValueFromAny(it)
			if err != nil {
				return Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			if iv.IsArray() {
				return Value{}, fmt.Errorf("item %d: nested arrays are not supported", i)
			}
			items = append(items, iv.String())
		}
		return ArrayValue(items...), nil
	default:
		return Value{}, fmt.Errorf("unsupported argument type %T", in)
	}
}

// ParseValue interprets a raw command-line token: booleans and numbers are
// recognized, anything else stays a string. A token only becomes a number when
// it reads back unchanged, so "1.0" and 20-digit IDs stay strings.
func ParseValue(raw string) Value {
	switch raw {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if looksNumeric(raw) {
		if n, err := strconv.ParseFloat(raw, 64); err == nil && strconv.FormatFloat(n, 'f', -1, 64) == raw {
			return NumberValue(n)
		}
	}
	return StringValue(raw)
}

// looksNumeric rejects forms ParseFloat accepts but users do not mean as numbers
// (hex, "Inf", "NaN", leading zeros like zip codes).
func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return false
	}
	if len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return false
	}
	dot := false
	for _, r := range digits {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return !strings.HasSuffix(digits, ".")
}

// Args is the runtime argument bag of one call.
type Args map[string]Value

// ArgsFromAny converts a decoded map into Args.
func ArgsFromAny(in map[string]any) (Args, error) {
	out := make(Args, len(in))
	for k, v := range in {
		val, err := ValueFromAny(v)
		if err != nil {
			return nil, &OpError{
				Op:   "args.convert",
				Kind: KindParamInvalid,
				Err:  fmt.Errorf("argument %q: %w", k, err),
			}
		}
		out[k] = val
	}
	return out, nil
}

// Keys returns the argument names sorted.
func (a Args) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy (values are immutable).
func (a Args) Clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// MergeArgs merges base and override (override wins) and returns a new map.
func MergeArgs(base Args, override Args) Args {
	out := Args{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// IsInternalArg reports keys that never reach the wire (leading "_" or "$0").
func IsInternalArg(key string) bool {
	return key == "$0" || strings.HasPrefix(key, "_")
}

// ExactNumbers walks a value decoded with json.Decoder.UseNumber and turns
// every json.Number into float64, except integers float64 cannot hold exactly.
// Those stay json.Number so their digits survive transforms and caching.
func ExactNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, vv := range t {
			t[k] = ExactNumbers(vv)
		}
		return t
	case []any:
		for i, vv := range t {
			t[i] = ExactNumbers(vv)
		}
		return t
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return t
		}
		if isInteger(string(t)) && strconv.FormatFloat(f, 'f', -1, 64) != string(t) {
			return t
		}
		return f
	default:
		return v
	}
}

func isInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
