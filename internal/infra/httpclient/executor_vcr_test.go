package httpclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/testutil"
)

func TestExecuteReplaysRecordedGitHub(t *testing.T) {
	rec, stop := testutil.NewVCRRecorder(t, "github_get_repo")
	defer stop()

	exec := NewExecutor(WithClient(testutil.VCRHTTPClient(rec)))

	resp, err := exec.Execute(context.Background(), domain.HTTPRequest{
		Method: domain.MethodGet,
		URL:    "https://api.github.com/repos/octocat/Hello-World",
	}, 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %#v", resp.Data)
	}
	if repo["full_name"] != "octocat/Hello-World" {
		t.Fatalf("unexpected full_name %v", repo["full_name"])
	}

	_, err = exec.Execute(context.Background(), domain.HTTPRequest{
		Method: domain.MethodGet,
		URL:    "https://api.github.com/repos/octocat/does-not-exist",
	}, 5*time.Second)

	var oe *domain.OpError
	if !errors.As(err, &oe) || oe.Kind != domain.KindAPIRequestFailed {
		t.Fatalf("expected API_REQUEST_FAILED, got %v", err)
	}
	if oe.Details["status"] != 404 {
		t.Fatalf("expected 404 detail, got %#v", oe.Details)
	}
}
