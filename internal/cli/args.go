package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/apix/internal/domain"
)

// parseArgs turns key=value tokens into Args. A repeated key becomes a list.
func parseArgs(tokens []string) (domain.Args, error) {
	out := domain.Args{}
	for _, tok := range tokens {
		key, raw, ok := strings.Cut(tok, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &domain.OpError{
				Op:   "cli.args",
				Kind: domain.KindParamInvalid,
				Err:  fmt.Errorf("%w: expected key=value, got %q", domain.ErrInvalidRequest, tok),
			}
		}

		prev, seen := out[key]
		if !seen {
			out[key] = domain.ParseValue(raw)
			continue
		}
		out[key] = domain.ArrayValue(append(prev.Strings(), raw)...)
	}
	return out, nil
}

// loadArgSets reads a YAML (or JSON) list of argument maps.
func loadArgSets(path string) ([]domain.Args, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "cli.batch_file",
			Kind: domain.KindParamInvalid,
			Path: path,
			Err:  err,
		}
	}

	var raw []map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, &domain.OpError{
			Op:   "cli.batch_file",
			Kind: domain.KindConfigParse,
			Path: path,
			Err:  err,
		}
	}

	sets := make([]domain.Args, 0, len(raw))
	for i, m := range raw {
		args, err := domain.ArgsFromAny(m)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		sets = append(sets, args)
	}
	return sets, nil
}
