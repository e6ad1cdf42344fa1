package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestOpErrorWrapUnwrap(t *testing.T) {
	root := errors.New("root")
	err := &OpError{
		Op:   "params.map",
		Kind: KindParamInvalid,
		Err:  root,
	}

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}

	var got *OpError
	if !errors.As(fmt.Errorf("outer: %w", err), &got) {
		t.Fatalf("expected errors.As to match OpError")
	}
	if got.Kind != KindParamInvalid {
		t.Fatalf("expected kind %s", KindParamInvalid)
	}
}

func TestIsKind(t *testing.T) {
	err := NewError("env.resolve", KindEnvVarNotFound, "missing environment variable: %s", "TOKEN")

	if !IsKind(err, KindEnvVarNotFound) {
		t.Fatalf("expected IsKind to match")
	}
	if IsKind(errors.New("plain"), KindEnvVarNotFound) {
		t.Fatalf("plain errors must not match a kind")
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Fatalf("expected plain errors to classify as internal")
	}
}

func TestToResultError(t *testing.T) {
	err := &OpError{
		Op:      "httpclient.execute",
		Kind:    KindAPIRequestFailed,
		Err:     errors.New("upstream returned 404"),
		Details: map[string]any{"status": 404},
	}

	re := ToResultError(err)
	if re.Code != "API_REQUEST_FAILED" {
		t.Fatalf("unexpected code %q", re.Code)
	}
	if re.Message != "upstream returned 404" {
		t.Fatalf("unexpected message %q", re.Message)
	}
	if re.Details["status"] != 404 {
		t.Fatalf("expected details to carry status, got %v", re.Details)
	}

	if ToResultError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
	if ToResultError(errors.New("boom")).Code != string(KindInternal) {
		t.Fatalf("expected internal code for plain errors")
	}
}
