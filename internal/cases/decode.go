package cases

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Custom scalar tags understood in case files.
const (
	TagDecimal  = "!decimal"
	TagTime     = "!time"
	TagDuration = "!duration"
)

// Decode parses YAML or JSON data into plain values: map[string]any,
// []any, scalars, and decimal.Decimal, time.Time or time.Duration for the
// custom tags.
func Decode(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return nodeValue(&root)
}

func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.SequenceNode:
		items := make([]any, len(n.Content))
		for i, child := range n.Content {
			v, err := nodeValue(child)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil
	case yaml.MappingNode:
		return mappingValue(n)
	case yaml.ScalarNode:
		return scalarValue(n)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

func mappingValue(n *yaml.Node) (map[string]any, error) {
	m := make(map[string]any, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Tag == "!!merge" {
			if err := merge(m, val); err != nil {
				return nil, err
			}
			continue
		}
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
		}
		v, err := nodeValue(val)
		if err != nil {
			return nil, err
		}
		m[key.Value] = v
	}
	return m, nil
}

// merge copies the keys of a "<<" source that m does not define yet.
func merge(m map[string]any, src *yaml.Node) error {
	v, err := nodeValue(src)
	if err != nil {
		return err
	}
	var sources []any
	switch v := v.(type) {
	case map[string]any:
		sources = []any{v}
	case []any:
		sources = v
	default:
		return fmt.Errorf("line %d: merge source must be a mapping", src.Line)
	}
	for _, s := range sources {
		sm, ok := s.(map[string]any)
		if !ok {
			return fmt.Errorf("line %d: merge source must be a mapping", src.Line)
		}
		for k, item := range sm {
			if _, exists := m[k]; !exists {
				m[k] = item
			}
		}
	}
	return nil
}

func scalarValue(n *yaml.Node) (any, error) {
	switch n.Tag {
	case TagDecimal:
		d, err := decimal.NewFromString(n.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s %q", n.Line, TagDecimal, n.Value)
		}
		return d, nil
	case TagTime:
		t, err := time.Parse(time.RFC3339Nano, n.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s %q, want RFC 3339", n.Line, TagTime, n.Value)
		}
		return t, nil
	case TagDuration:
		d, err := time.ParseDuration(n.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s %q", n.Line, TagDuration, n.Value)
		}
		return d, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return v, nil
}
