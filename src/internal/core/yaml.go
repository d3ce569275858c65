// FILE: sensormerge/src/internal/core/yaml.go
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders the entry as an ordered mapping
func (e Entry) MarshalYAML() (any, error) {
	return e.yamlNode()
}

func (e Entry) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range e.fields {
		value, err := rawToNode(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

func rawToNode(raw json.RawMessage) (*yaml.Node, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}

	switch trimmed[0] {
	case '{':
		var nested Entry
		if err := nested.UnmarshalJSON(trimmed); err != nil {
			return nil, err
		}
		return nested.yamlNode()

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range items {
			child, err := rawToNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil

	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}, nil

	case 't', 'f':
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: string(trimmed)}, nil

	case 'n':
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil

	default:
		literal := string(trimmed)
		if _, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: literal}, nil
		}
		if _, err := strconv.ParseFloat(literal, 64); err != nil {
			return nil, fmt.Errorf("invalid JSON value %s", literal)
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: literal}, nil
	}
}
