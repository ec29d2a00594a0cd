package document

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dcshock/pipedoc/pipeline"
)

// An ordered list of (key, value) pairs — possibly with repeated keys — is
// written as a YAML sequence of single-entry mappings:
//
//	- key1: value1
//	- key2: value2
//	- key1: value3
//
// A plain mapping would collapse the repeated key and lose ordering. The
// module list (key = type name) and each settings list (key = label) both use
// this shape, so the helpers here work on raw yaml.Node values and never pass
// through a Go map.

// singleEntry unwraps one element of such a sequence, returning its key and
// value node.
func singleEntry(node *yaml.Node) (string, *yaml.Node, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return "", nil, errors.New("entry must be a mapping with exactly one key")
	}
	return node.Content[0].Value, node.Content[1], nil
}

// wrapSingleEntry builds a single-entry mapping node for key and value.
func wrapSingleEntry(key string, value *yaml.Node) *yaml.Node {
	return &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{strScalar(key), value},
	}
}

// strScalar returns a scalar node explicitly tagged as a string, so values
// like "5" or "true" survive a round trip as text.
func strScalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// settingList marshals an ordered settings sequence as single-entry mappings
// and back. Duplicate labels decode as distinct entries in file order.
type settingList []pipeline.Setting

func (s settingList) MarshalYAML() (interface{}, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, entry := range s {
		seq.Content = append(seq.Content, wrapSingleEntry(entry.Label, strScalar(entry.Value)))
	}
	return seq, nil
}

func (s *settingList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return errors.New("settings must be a sequence")
	}
	out := make([]pipeline.Setting, 0, len(value.Content))
	for i, item := range value.Content {
		label, val, err := singleEntry(item)
		if err != nil {
			return errors.Wrapf(err, "setting %d", i)
		}
		if val.Kind != yaml.ScalarNode {
			return errors.Errorf("setting %d (%s): value must be a scalar", i, label)
		}
		out = append(out, pipeline.Setting{Label: label, Value: val.Value})
	}
	*s = out
	return nil
}
