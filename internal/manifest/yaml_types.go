package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// --- Manifest YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for Manifest.
// Accepts either the full mapping form or a bare list of patterns. The list
// form globs relative to the manifest directory itself.
func (m *Manifest) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var patterns []Pattern

		err := node.Decode(&patterns)
		if err != nil {
			return err
		}

		*m = Manifest{Root: ".", Patterns: patterns, legacy: true}

		return nil

	case yaml.MappingNode:
		type plain Manifest

		var p plain

		err := node.Decode(&p)
		if err != nil {
			return err
		}

		*m = Manifest(p)

		return nil

	default:
		return fmt.Errorf("line %d: expected a mapping or a list of patterns", node.Line)
	}
}

// --- Pattern YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for Pattern.
// "pattern" and "type" are well-known keys; every other key is kept as an
// extra property in declaration order.
func (p *Pattern) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: pattern entry must be a mapping", node.Line)
	}

	var out Pattern

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		switch key.Value {
		case "pattern":
			err := value.Decode(&out.Pattern)
			if err != nil {
				return fmt.Errorf("line %d: pattern: %w", value.Line, err)
			}

		case "type":
			err := value.Decode(&out.TypeName)
			if err != nil {
				return fmt.Errorf("line %d: type: %w", value.Line, err)
			}

		default:
			var v any

			err := value.Decode(&v)
			if err != nil {
				return fmt.Errorf("line %d: %s: %w", value.Line, key.Value, err)
			}

			out.Extra = append(out.Extra, Property{Key: key.Value, Value: v})
		}
	}

	*p = out

	return nil
}

// MarshalYAML implements custom YAML marshaling for Pattern.
// Extra properties follow the well-known keys in declaration order.
func (p Pattern) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	AppendPair(node, "pattern", p.Pattern)
	AppendPair(node, "type", p.TypeName)

	for _, prop := range p.Extra {
		if err := AppendValue(node, prop.Key, prop.Value); err != nil {
			return nil, err
		}
	}

	return node, nil
}

// --- Properties YAML methods ---

// MarshalYAML writes the properties as a mapping in declaration order.
func (p Properties) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, prop := range p {
		if err := AppendValue(node, prop.Key, prop.Value); err != nil {
			return nil, err
		}
	}

	return node, nil
}

// AppendPair appends a string scalar key/value pair to a mapping node.
func AppendPair(node *yaml.Node, key, value string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}

// AppendValue encodes value and appends it under key to a mapping node.
func AppendValue(node *yaml.Node, key string, value any) error {
	var v yaml.Node

	err := v.Encode(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&v,
	)

	return nil
}
