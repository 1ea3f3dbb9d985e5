package models

import (
	"encoding/json"
	"fmt"
)

// SecurityLevel is the requested posture for a template rewrite.
type SecurityLevel string

const (
	LevelLow    SecurityLevel = "low"
	LevelMedium SecurityLevel = "medium"
	LevelHigh   SecurityLevel = "high"
)

// ParseSecurityLevel returns the SecurityLevel named by s. Matching is exact;
// "Low" or " low" are rejected.
func ParseSecurityLevel(s string) (SecurityLevel, error) {
	switch SecurityLevel(s) {
	case LevelLow, LevelMedium, LevelHigh:
		return SecurityLevel(s), nil
	}
	return "", fmt.Errorf("invalid security level %q", s)
}

// ReadsRules reports whether the level consumes a rules document.
// The low level ignores rules entirely and never reads them.
func (l SecurityLevel) ReadsRules() bool {
	return l != LevelLow
}

// CloudFormation resource types inspected or produced by the rewrite.
const (
	TypeSecurityGroup        = "AWS::EC2::SecurityGroup"
	TypeSecurityGroupIngress = "AWS::EC2::SecurityGroupIngress"
)

// AnyCIDR is the IPv4 range that matches every source address.
const AnyCIDR = "0.0.0.0/0"

// AllProtocols is the EC2 protocol value meaning every protocol. Ports set to
// AllPorts accompany it.
const (
	AllProtocols = "-1"
	AllPorts     = -1
)

// RuleSet is the top-level rules document read after the template.
type RuleSet struct {
	Rules []Rule `json:"rules"`
}

// Rule is one requested ingress permission as it appears in the rules
// document. Pointer and raw fields distinguish an absent field from a zero
// value; the validator turns a Rule into a typed, checked permission.
type Rule struct {
	Component *string `json:"component"`
	Protocol  *string `json:"protocol"`

	// Port is kept as the raw JSON token so a quoted port ("443") or a
	// non-integer value can be reported as a validation failure rather than a
	// decode failure.
	Port json.RawMessage `json:"port"`

	Source *string `json:"source,omitempty"`
}
