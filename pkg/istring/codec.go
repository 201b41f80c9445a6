package istring

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalText implements encoding.TextMarshaler.
func (s IString) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The decoded value is
// shared. s must own its value: a shared value it already holds is released
// before being replaced.
func (s *IString) UnmarshalText(b []byte) error {
	s.Release()
	*s = FromBytes(b)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s IString) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler for scalar nodes. The decoded
// value is shared and replaces s like UnmarshalText. On error s is unchanged.
func (s *IString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("istring: line %d: cannot decode %s into a string", node.Line, nodeKind(node.Kind))
	}
	s.Release()
	*s = FromString(node.Value)
	return nil
}

func nodeKind(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	default:
		return "scalar"
	}
}
