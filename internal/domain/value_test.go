package domain

import (
	"encoding/json"
	"testing"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		raw  string
		kind ValueKind
		str  string
	}{
		{"42", ValueNumber, "42"},
		{"-3.5", ValueNumber, "-3.5"},
		{"0", ValueNumber, "0"},
		{"007", ValueString, "007"},
		{"0x1f", ValueString, "0x1f"},
		{"NaN", ValueString, "NaN"},
		{"1.", ValueString, "1."},
		{"1.0", ValueString, "1.0"},
		{"1234567890123456789", ValueString, "1234567890123456789"},
		{"9007199254740993", ValueString, "9007199254740993"},
		{"9007199254740992", ValueNumber, "9007199254740992"},
		{"true", ValueBool, "true"},
		{"false", ValueBool, "false"},
		{"octo", ValueString, "octo"},
		{"", ValueString, ""},
	}
	for _, c := range cases {
		v := ParseValue(c.raw)
		if v.Kind() != c.kind {
			t.Errorf("ParseValue(%q) kind = %s, want %s", c.raw, v.Kind(), c.kind)
		}
		if v.String() != c.str {
			t.Errorf("ParseValue(%q) string = %q, want %q", c.raw, v.String(), c.str)
		}
	}
}

func TestValueInterface(t *testing.T) {
	if got := NumberValue(42).Interface(); got != 42.0 {
		t.Fatalf("expected float64 42, got %#v", got)
	}
	if got := BoolValue(true).Interface(); got != true {
		t.Fatalf("expected true, got %#v", got)
	}
	arr, ok := ArrayValue("a", "b").Interface().([]any)
	if !ok || len(arr) != 2 || arr[0] != "a" || arr[1] != "b" {
		t.Fatalf("unexpected array interface: %#v", arr)
	}
}

func TestValueFromAny(t *testing.T) {
	v, err := ValueFromAny([]any{"x", 2, true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(ArrayValue("x", "2", "true")) {
		t.Fatalf("unexpected value %v", v.Strings())
	}

	if _, err := ValueFromAny(map[string]any{"a": 1}); err == nil {
		t.Fatalf("expected nested objects to be rejected")
	}
	if _, err := ValueFromAny([]any{[]any{"a"}}); err == nil {
		t.Fatalf("expected nested arrays to be rejected")
	}
}

func TestArgsFromAnyReportsParamInvalid(t *testing.T) {
	_, err := ArgsFromAny(map[string]any{"filter": map[string]any{"a": 1}})
	if !IsKind(err, KindParamInvalid) {
		t.Fatalf("expected PARAM_INVALID, got %v", err)
	}
}

func TestMergeArgs(t *testing.T) {
	base := Args{
		"owner": StringValue("octo"),
		"repo":  StringValue("hello"),
	}
	override := Args{
		"owner": StringValue("other"),
	}

	merged := MergeArgs(base, override)

	if merged["owner"].String() != "other" {
		t.Fatalf("expected override value to win")
	}
	if merged["repo"].String() != "hello" {
		t.Fatalf("expected base value to remain")
	}
	if base["owner"].String() != "octo" {
		t.Fatalf("expected base to remain unchanged")
	}
}

func TestIsInternalArg(t *testing.T) {
	for _, k := range []string{"_", "_debug", "$0"} {
		if !IsInternalArg(k) {
			t.Errorf("expected %q to be internal", k)
		}
	}
	for _, k := range []string{"id", "$1", "a_b"} {
		if IsInternalArg(k) {
			t.Errorf("expected %q not to be internal", k)
		}
	}
}

func TestValueFromAny_LargeIntegersKeepTheirDigits(t *testing.T) {
	for _, in := range []any{int64(1234567890123456789), uint64(18446744073709551615), json.Number("1234567890123456789")} {
		v, err := ValueFromAny(in)
		if err != nil {
			t.Fatalf("ValueFromAny(%v): %v", in, err)
		}
		if v.Kind() != ValueNumber {
			t.Fatalf("ValueFromAny(%v): expected number, got %s", in, v.Kind())
		}
		want := ""
		switch n := in.(type) {
		case int64:
			want = "1234567890123456789"
		case uint64:
			want = "18446744073709551615"
		case json.Number:
			want = string(n)
		}
		if v.String() != want {
			t.Fatalf("expected %s, got %s", want, v.String())
		}
		if got, ok := v.Interface().(json.Number); !ok || string(got) != want {
			t.Fatalf("expected json.Number %s, got %#v", want, v.Interface())
		}
	}

	small, err := ValueFromAny(json.Number("42"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if small.Interface() != 42.0 {
		t.Fatalf("expected exact numbers to stay float64, got %#v", small.Interface())
	}
}

func TestExactNumbers(t *testing.T) {
	in := map[string]any{
		"id":    json.Number("1234567890123456789"),
		"count": json.Number("42"),
		"ratio": json.Number("0.1"),
		"big":   json.Number("1e3"),
		"items": []any{json.Number("9007199254740993"), "x"},
	}

	got := ExactNumbers(in).(map[string]any)

	if got["id"] != json.Number("1234567890123456789") {
		t.Fatalf("expected large id to stay json.Number, got %#v", got["id"])
	}
	if got["count"] != 42.0 || got["ratio"] != 0.1 || got["big"] != 1000.0 {
		t.Fatalf("expected exact numbers as float64, got %#v", got)
	}
	items := got["items"].([]any)
	if items[0] != json.Number("9007199254740993") || items[1] != "x" {
		t.Fatalf("unexpected items %#v", items)
	}
}
