package vecmap

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalYAML encodes the map as a YAML mapping with entries in key order.
func (m *Map[K, V, N]) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{
		Kind:    yaml.MappingNode,
		Tag:     "!!map",
		Content: make([]*yaml.Node, 0, 2*m.Len()),
	}
	for _, e := range m.entries.Slice() {
		var key, value yaml.Node
		if err := key.Encode(e.Key); err != nil {
			return nil, fmt.Errorf("encode key %v: %w", e.Key, err)
		}
		if err := value.Encode(e.Value); err != nil {
			return nil, fmt.Errorf("encode value for %v: %w", e.Key, err)
		}
		node.Content = append(node.Content, &key, &value)
	}
	return node, nil
}

// UnmarshalYAML replaces the map's contents with the pairs of a YAML
// mapping, tolerating unordered and repeated keys like UnmarshalJSON. Merge
// keys (<<) are expanded; keys written in the mapping itself win over merged
// ones, and earlier merge sources win over later ones.
func (m *Map[K, V, N]) UnmarshalYAML(node *yaml.Node) error {
	order, err := m.orderForDecode()
	if err != nil {
		return err
	}
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return &yaml.TypeError{Errors: []string{
			fmt.Sprintf("line %d: cannot unmarshal %s into %T", node.Line, node.ShortTag(), m),
		}}
	}
	b := newBuilder[K, V, N](len(node.Content)/2, order)
	var merges []*yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].ShortTag() == mergeTag {
			merges = append(merges, node.Content[i+1])
			continue
		}
		var k K
		var v V
		if err := node.Content[i].Decode(&k); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&v); err != nil {
			return err
		}
		b.add(k, v)
	}
	built := b.finish()
	for _, source := range merges {
		if err := mergeYAML(built, source); err != nil {
			return err
		}
	}
	m.replace(built)
	return nil
}

const mergeTag = "!!merge"

// mergeYAML adds the entries of a merge source, a mapping or a sequence of
// mappings, for keys dst does not have yet.
func mergeYAML[K, V any, N Inline](dst *Map[K, V, N], source *yaml.Node) error {
	if source.Kind == yaml.AliasNode && source.Alias != nil {
		source = source.Alias
	}
	switch source.Kind {
	case yaml.MappingNode:
		src := &Map[K, V, N]{order: dst.order}
		if err := src.UnmarshalYAML(source); err != nil {
			return err
		}
		for _, e := range src.entries.Slice() {
			if !dst.Contains(e.Key) {
				dst.Insert(e.Key, e.Value)
			}
		}
		return nil
	case yaml.SequenceNode:
		for _, item := range source.Content {
			if item.Kind == yaml.AliasNode && item.Alias != nil {
				item = item.Alias
			}
			if item.Kind != yaml.MappingNode {
				return &yaml.TypeError{Errors: []string{
					fmt.Sprintf("line %d: map merge requires map or sequence of maps as the value", item.Line),
				}}
			}
			if err := mergeYAML(dst, item); err != nil {
				return err
			}
		}
		return nil
	}
	return &yaml.TypeError{Errors: []string{
		fmt.Sprintf("line %d: map merge requires map or sequence of maps as the value", source.Line),
	}}
}
