// Package transform reshapes response payloads before they are returned or cached.
//
// One stage runs query (JMESPath), then extract (JSONPath), then fields, then
// rename. Stages compose left to right. Missing data is never an error: it is
// simply left out of the output.
package transform

import (
	"context"
	"fmt"

	"github.com/jmespath/go-jmespath"

	"github.com/aalvaropc/apix/internal/domain"
)

type stage struct {
	query   *jmespath.JMESPath
	extract []extractRule
	fields  [][]token
	rename  []renameRule
}

// Pipeline is a compiled list of stages.
type Pipeline struct {
	stages []stage
}

// Compile checks every expression and path up front. Failures are CONFIG_INVALID.
func Compile(cfgs []domain.TransformConfig) (*Pipeline, error) {
	p := &Pipeline{stages: make([]stage, 0, len(cfgs))}
	for i, cfg := range cfgs {
		st, err := compileStage(cfg)
		if err != nil {
			return nil, &domain.OpError{
				Op:   "transform.compile",
				Kind: domain.KindConfigInvalid,
				Err:  fmt.Errorf("%w: transform[%d]: %v", domain.ErrInvalidConfig, i, err),
			}
		}
		p.stages = append(p.stages, st)
	}
	return p, nil
}

func compileStage(cfg domain.TransformConfig) (stage, error) {
	var st stage
	var err error

	if cfg.Query != "" {
		if st.query, err = compileQuery(cfg.Query); err != nil {
			return stage{}, err
		}
	}
	if len(cfg.Extract) > 0 {
		if st.extract, err = compileExtract(cfg.Extract); err != nil {
			return stage{}, err
		}
	}
	for _, f := range cfg.Fields {
		toks, err := parsePath(f)
		if err != nil {
			return stage{}, fmt.Errorf("fields: %w", err)
		}
		st.fields = append(st.fields, toks)
	}
	if len(cfg.Rename) > 0 {
		if st.rename, err = compileRename(cfg.Rename); err != nil {
			return stage{}, err
		}
	}
	return st, nil
}

// Run applies the pipeline to a private copy of payload.
func (p *Pipeline) Run(ctx context.Context, payload any) any {
	if p == nil || len(p.stages) == 0 {
		return payload
	}

	out := deepCopy(payload)
	for _, st := range p.stages {
		if st.query != nil {
			out = runQuery(st.query, out)
		}
		if st.extract != nil {
			out = runExtract(ctx, st.extract, out)
		}
		if st.fields != nil {
			out = selectFields(out, st.fields)
		}
		if st.rename != nil {
			out = applyRename(out, st.rename)
		}
	}
	return out
}

// Apply compiles cfgs and runs them over payload. An empty list is the identity.
func Apply(ctx context.Context, payload any, cfgs []domain.TransformConfig) (any, error) {
	p, err := Compile(cfgs)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, payload), nil
}
