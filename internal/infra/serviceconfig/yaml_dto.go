package serviceconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type YAMLService struct {
	ServiceName     string         `yaml:"serviceName" validate:"required"`
	Description     string         `yaml:"description"`
	BaseURL         string         `yaml:"baseUrl" validate:"required"`
	GraphQLEndpoint string         `yaml:"graphqlEndpoint"`
	Authentication  *YAMLAuth      `yaml:"authentication"`
	Endpoints       []YAMLEndpoint `yaml:"endpoints" validate:"required,min=1,dive"`
	Aliases         []YAMLAlias    `yaml:"aliases" validate:"dive"`
}

type YAMLAuth struct {
	Type       string `yaml:"type" validate:"required,oneof=bearer apikey"`
	Token      string `yaml:"token" validate:"required"`
	Header     string `yaml:"header"`
	Location   string `yaml:"location" validate:"omitempty,oneof=header query"`
	QueryParam string `yaml:"queryParam"`
}

type YAMLEndpoint struct {
	Name          string            `yaml:"name" validate:"required"`
	Description   string            `yaml:"description"`
	Method        string            `yaml:"method"`
	Path          string            `yaml:"path"`
	CacheTTL      int               `yaml:"cacheTTL" validate:"gte=0"`
	Headers       map[string]string `yaml:"headers"`
	DefaultParams map[string]any    `yaml:"defaultParams"`
	Transform     YAMLTransforms    `yaml:"transform"`

	// GraphQL operations.
	Query         string `yaml:"query"`
	OperationName string `yaml:"operationName"`
}

type YAMLAlias struct {
	Name     string         `yaml:"name" validate:"required"`
	Endpoint string         `yaml:"endpoint" validate:"required"`
	Args     map[string]any `yaml:"args"`
}

type YAMLTransform struct {
	Query   string            `yaml:"query"`
	Extract map[string]string `yaml:"extract"`
	Fields  []string          `yaml:"fields"`
	Rename  YAMLRename        `yaml:"rename"`
}

type YAMLRenameRule struct {
	From string
	To   string
}

// YAMLRename is a mapping of old path to new path that keeps the order the
// rules were written in, so one rule can build on another.
type YAMLRename []YAMLRenameRule

func (r *YAMLRename) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		seen := make(map[string]bool, len(node.Content)/2)
		out := make(YAMLRename, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: rename entries must map a path to a path", k.Line)
			}
			if seen[k.Value] {
				return fmt.Errorf("line %d: duplicate rename of %q", k.Line, k.Value)
			}
			seen[k.Value] = true
			out = append(out, YAMLRenameRule{From: k.Value, To: v.Value})
		}
		*r = out
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*r = nil
			return nil
		}
	}
	return fmt.Errorf("line %d: rename must be a mapping of paths", node.Line)
}

// YAMLTransforms accepts either a single transform object or a list of them.
type YAMLTransforms []YAMLTransform

func (t *YAMLTransforms) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var one YAMLTransform
		if err := node.Decode(&one); err != nil {
			return err
		}
		*t = YAMLTransforms{one}
		return nil
	case yaml.SequenceNode:
		var many []YAMLTransform
		if err := node.Decode(&many); err != nil {
			return err
		}
		*t = many
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*t = nil
			return nil
		}
	}
	return fmt.Errorf("line %d: transform must be an object or a list of objects", node.Line)
}
