package usecase

import (
	"context"

	"github.com/aalvaropc/apix/internal/domain"
	"github.com/aalvaropc/apix/internal/ports"
)

// RunBatch calls one endpoint once per argument set, strictly in order.
type RunBatch struct {
	caller ports.EndpointCaller
}

func NewRunBatch(caller ports.EndpointCaller) *RunBatch {
	return &RunBatch{caller: caller}
}

var _ ports.BatchRunner = (*RunBatch)(nil)

// Run reports one item per argument set at the same index. With StopOnError,
// items after the first failure are skipped and never executed. A cancelled
// context skips whatever has not started yet.
func (uc *RunBatch) Run(ctx context.Context, req domain.BatchRequest) domain.BatchResult {
	out := domain.BatchResult{
		Items: make([]domain.BatchItem, 0, len(req.ArgSets)),
	}
	out.Summary.Total = len(req.ArgSets)

	stop := false
	for i, args := range req.ArgSets {
		if stop || ctx.Err() != nil {
			out.Items = append(out.Items, domain.BatchItem{Index: i, Skipped: true})
			out.Summary.Skipped++
			continue
		}

		res := uc.caller.Call(ctx, domain.CallRequest{
			Service:  req.Service,
			Endpoint: req.Endpoint,
			Args:     args,
			Options:  req.Options,
		})
		out.Items = append(out.Items, domain.BatchItem{Index: i, Result: &res})

		if res.Success {
			out.Summary.Succeeded++
			continue
		}
		out.Summary.Failed++
		if req.StopOnError {
			stop = true
		}
	}

	out.Success = out.Summary.Succeeded == out.Summary.Total
	return out
}
