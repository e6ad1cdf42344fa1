package domain

import "testing"

func TestIsSensitiveHeader(t *testing.T) {
	sensitive := []string{"Authorization", " cookie ", "X-Api-Key", "X-GitHub-Token", "Client-Secret", "X-Custom-Auth"}
	for _, h := range sensitive {
		if !IsSensitiveHeader(h, "x-custom-auth") {
			t.Errorf("expected %q to be sensitive", h)
		}
	}
	for _, h := range []string{"Accept", "Content-Type", "X-GitHub-Api-Version"} {
		if IsSensitiveHeader(h) {
			t.Errorf("expected %q not to be sensitive", h)
		}
	}
}

func TestIsVolatileHeader(t *testing.T) {
	if !IsVolatileHeader("X-Request-ID") || !IsVolatileHeader("User-Agent") {
		t.Fatalf("expected request id and user agent to be volatile")
	}
	if IsVolatileHeader("Accept") {
		t.Fatalf("expected accept not to be volatile")
	}
}
