// Package template holds a CloudFormation YAML document as a yaml.v3 node
// tree so that resources can be added, replaced and removed while every
// untouched entry keeps its key order, comments, tags and quoting style.
package template

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ResourcesKey is the top-level section holding resource definitions.
const ResourcesKey = "Resources"

// ErrEmpty is returned by Load when the document has no content.
var ErrEmpty = errors.New("empty template")

// FormatOptions controls serialization. It is passed to Save explicitly so
// that no formatter state outlives a single call.
type FormatOptions struct {
	// Indent is the number of spaces per nesting level (2..9).
	Indent int
}

// Store is a loaded template. It is not safe for concurrent use.
type Store struct {
	doc       *yaml.Node
	root      *yaml.Node
	resources *yaml.Node
}

// Load parses data as a single YAML document whose root is a mapping.
// A Resources entry, when present, must also be a mapping with unique keys.
func Load(data []byte) (*Store, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmpty
	}

	root := resolve(doc.Content[0])
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return nil, ErrEmpty
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("template root must be a mapping, got %s", kindName(root.Kind))
	}

	s := &Store{doc: &doc, root: root}
	if _, v := find(root, ResourcesKey); v != nil {
		v = resolve(v)
		if v.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%s must be a mapping, got %s", ResourcesKey, kindName(v.Kind))
		}
		if err := checkUniqueKeys(v); err != nil {
			return nil, fmt.Errorf("%s: %w", ResourcesKey, err)
		}
		s.resources = v
	}
	return s, nil
}

// Names returns the resource names in document order.
func (s *Store) Names() []string {
	if s.resources == nil {
		return nil
	}
	names := make([]string, 0, len(s.resources.Content)/2)
	for i := 0; i+1 < len(s.resources.Content); i += 2 {
		names = append(names, s.resources.Content[i].Value)
	}
	return names
}

// Len returns the number of resources.
func (s *Store) Len() int {
	if s.resources == nil {
		return 0
	}
	return len(s.resources.Content) / 2
}

// Has reports whether a resource named name exists.
func (s *Store) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Lookup returns the resource named name.
func (s *Store) Lookup(name string) (Resource, bool) {
	if s.resources == nil {
		return Resource{}, false
	}
	_, v := find(s.resources, name)
	if v == nil {
		return Resource{}, false
	}
	return Resource{Name: name, node: resolve(v)}, true
}

// Resources returns every resource in document order.
func (s *Store) Resources() []Resource {
	if s.resources == nil {
		return nil
	}
	out := make([]Resource, 0, s.Len())
	for i := 0; i+1 < len(s.resources.Content); i += 2 {
		out = append(out, Resource{
			Name: s.resources.Content[i].Value,
			node: resolve(s.resources.Content[i+1]),
		})
	}
	return out
}

// Set stores value under name. An existing entry is replaced where it stands
// and keeps the comments attached to its key; a new entry is appended to the
// end of Resources, creating the section if the template has none.
func (s *Store) Set(name string, value *yaml.Node) {
	if s.resources == nil {
		s.resources = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		s.root.Content = append(s.root.Content, Str(ResourcesKey), s.resources)
	}
	for i := 0; i+1 < len(s.resources.Content); i += 2 {
		if s.resources.Content[i].Value == name {
			s.resources.Content[i+1] = value
			return
		}
	}
	s.resources.Content = append(s.resources.Content, Str(name), value)
}

// Delete removes the resource named name and reports whether it existed.
func (s *Store) Delete(name string) bool {
	if s.resources == nil {
		return false
	}
	for i := 0; i+1 < len(s.resources.Content); i += 2 {
		if s.resources.Content[i].Value == name {
			s.resources.Content = append(s.resources.Content[:i], s.resources.Content[i+2:]...)
			return true
		}
	}
	return false
}

// Save writes the document to w.
func (s *Store) Save(w io.Writer, opts FormatOptions) error {
	enc := yaml.NewEncoder(w)
	if opts.Indent > 0 {
		enc.SetIndent(opts.Indent)
	}
	if err := enc.Encode(s.doc); err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	return enc.Close()
}

func checkUniqueKeys(m *yaml.Node) error {
	seen := make(map[string]int, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := m.Content[i]
		if line, dup := seen[k.Value]; dup {
			return fmt.Errorf("duplicate key %q at line %d (first defined at line %d)", k.Value, k.Line, line)
		}
		seen[k.Value] = k.Line
	}
	return nil
}

// find returns the key and value nodes for key in mapping m, or nils.
func find(m *yaml.Node, key string) (*yaml.Node, *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i], m.Content[i+1]
		}
	}
	return nil, nil
}

// resolve follows alias nodes to their anchor.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "empty node"
}
