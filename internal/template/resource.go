package template

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// Resource is a read-only view of one entry under Resources.
type Resource struct {
	Name string
	node *yaml.Node
}

// Type returns the resource's Type value, or "" when absent or not a scalar.
func (r Resource) Type() string {
	if r.node == nil || r.node.Kind != yaml.MappingNode {
		return ""
	}
	_, v := find(r.node, "Type")
	v = resolve(v)
	if v == nil || v.Kind != yaml.ScalarNode {
		return ""
	}
	return v.Value
}

// Property returns the node stored at Properties.<name>, with aliases
// followed, or nil.
func (r Resource) Property(name string) *yaml.Node {
	if r.node == nil || r.node.Kind != yaml.MappingNode {
		return nil
	}
	_, props := find(r.node, "Properties")
	props = resolve(props)
	if props == nil || props.Kind != yaml.MappingNode {
		return nil
	}
	_, v := find(props, name)
	return resolve(v)
}

// Node returns the underlying value node.
func (r Resource) Node() *yaml.Node {
	return r.node
}

// Str returns a plain string scalar. The encoder quotes it when the text
// would otherwise read back as another type or as a tag.
func Str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// Int returns an integer scalar.
func Int(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(i)}
}

// Tagged returns a scalar carrying a local tag, such as the short-form
// intrinsic function !Ref.
func Tagged(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// Pair is one key/value entry of a mapping built with Map.
type Pair struct {
	Key   string
	Value *yaml.Node
}

// Map returns a block mapping holding pairs in the given order.
func Map(pairs ...Pair) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range pairs {
		n.Content = append(n.Content, Str(p.Key), p.Value)
	}
	return n
}
