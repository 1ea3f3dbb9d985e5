package posture

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pankaj-dahiya-devops/sg-posture/internal/template"
)

// ReferenceStyle decides how an ingress resource's GroupId is recognised as
// pointing at a security group, and how new GroupId values are written.
type ReferenceStyle int

const (
	// ReferenceText matches and writes the literal string "!Ref <component>".
	// It does not recognise the YAML short-form tag !Ref, nor {Ref: X}.
	ReferenceText ReferenceStyle = iota

	// ReferenceStructural also matches the tagged short form and the
	// long-form Ref mapping, and writes the tagged short form.
	ReferenceStructural
)

// ParseReferenceStyle maps a policy value to a ReferenceStyle. The empty
// string selects ReferenceText.
func ParseReferenceStyle(s string) (ReferenceStyle, error) {
	switch s {
	case "", "text":
		return ReferenceText, nil
	case "structural":
		return ReferenceStructural, nil
	}
	return 0, fmt.Errorf("unknown reference style %q", s)
}

func (s ReferenceStyle) String() string {
	if s == ReferenceStructural {
		return "structural"
	}
	return "text"
}

// Matches reports whether n refers to component under this style.
func (s ReferenceStyle) Matches(n *yaml.Node, component string) bool {
	if n == nil {
		return false
	}
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str" && n.Value == textRef(component) {
		return true
	}
	if s != ReferenceStructural {
		return false
	}

	switch n.Kind {
	case yaml.ScalarNode:
		return n.Tag == "!Ref" && n.Value == component
	case yaml.MappingNode:
		if len(n.Content) != 2 || n.Content[0].Value != "Ref" {
			return false
		}
		v := n.Content[1]
		return v.Kind == yaml.ScalarNode && v.Value == component
	}
	return false
}

// Node returns a GroupId value referring to component.
func (s ReferenceStyle) Node(component string) *yaml.Node {
	if s == ReferenceStructural {
		return template.Tagged("!Ref", component)
	}
	return template.Str(textRef(component))
}

func textRef(component string) string {
	return "!Ref " + component
}
