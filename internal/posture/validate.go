package posture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pankaj-dahiya-devops/sg-posture/internal/models"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/template"
)

// Port bounds. -1 is the EC2 "all ports" value.
const (
	MinPort = models.AllPorts
	MaxPort = 65535
)

var errNotInteger = errors.New("port must be an integer")

// ResolvedComponent is a security group name that has been checked to exist
// in the template with type AWS::EC2::SecurityGroup. It can only be obtained
// from Validate.
type ResolvedComponent struct {
	name string
}

// Name returns the component's logical ID.
func (c ResolvedComponent) Name() string { return c.name }

// Permission is one validated rule.
type Permission struct {
	Component ResolvedComponent
	Protocol  string
	Port      int

	// Source is the rule's CIDR. It is set only at the high level.
	Source string
}

// Plan is the validated input to Apply. It is bound to the Store it was
// validated against.
type Plan struct {
	Level models.SecurityLevel

	// Targets lists the components a low-level rewrite opens up.
	Targets []ResolvedComponent

	// Permissions lists the rules of a medium or high rewrite in input order.
	Permissions []Permission

	store *template.Store
}

// Validate checks level and rules against store and resolves every
// referenced component exactly once. Nothing is mutated. The first failure is
// returned as a validation error.
//
// At the low level rules are ignored and the engine's configured low
// components are resolved instead.
func (e *Engine) Validate(level string, rules []models.Rule, store *template.Store) (*Plan, error) {
	lvl, err := models.ParseSecurityLevel(level)
	if err != nil {
		return nil, Validationf("invalid security level %q; expected low, medium or high", level)
	}

	plan := &Plan{Level: lvl, store: store}
	if lvl == models.LevelLow {
		for _, name := range e.lowComponents {
			c, err := resolve(store, name)
			if err != nil {
				return nil, err
			}
			plan.Targets = append(plan.Targets, c)
		}
		return plan, nil
	}

	for i, r := range rules {
		p, err := e.validateRule(lvl, r, store)
		if err != nil {
			return nil, withRuleIndex(i, err)
		}
		plan.Permissions = append(plan.Permissions, p)
	}
	return plan, nil
}

func (e *Engine) validateRule(lvl models.SecurityLevel, r models.Rule, store *template.Store) (Permission, error) {
	if isBlank(r.Component) || isBlank(r.Protocol) || len(r.Port) == 0 {
		return Permission{}, Validationf("each rule must contain 'component', 'protocol', and 'port'")
	}

	port, err := parsePort(r.Port)
	if err != nil {
		return Permission{}, Validationf("%v", err)
	}

	if lvl == models.LevelHigh && isBlank(r.Source) {
		return Permission{}, Validationf("high security level requires a 'source' field")
	}

	c, err := resolve(store, *r.Component)
	if err != nil {
		return Permission{}, err
	}

	p := Permission{Component: c, Protocol: *r.Protocol, Port: port}
	if lvl == models.LevelHigh {
		p.Source = *r.Source
	}

	if port == models.AllPorts && p.Protocol != models.AllProtocols {
		e.logger.Warn("port -1 with a specific protocol opens every port of that protocol",
			"component", c.name, "protocol", p.Protocol)
	}
	return p, nil
}

// resolve is the single existence and type check for a component.
func resolve(store *template.Store, name string) (ResolvedComponent, error) {
	res, ok := store.Lookup(name)
	if !ok {
		return ResolvedComponent{}, Validationf("component %s not found in Resources", name)
	}
	if t := res.Type(); t != models.TypeSecurityGroup {
		return ResolvedComponent{}, Validationf("component %s is %q, not %s", name, t, models.TypeSecurityGroup)
	}
	return ResolvedComponent{name: name}, nil
}

// parsePort accepts a JSON integer, an integral JSON number such as 443.0,
// or a string holding a decimal integer, and checks it against the port
// bounds.
func parsePort(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, errNotInteger
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, errNotInteger
		}
		text = strings.TrimSpace(text)
		if _, err := strconv.ParseInt(text, 10, 64); err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, errNotInteger
		}
	} else if raw[0] != '-' && (raw[0] < '0' || raw[0] > '9') {
		return 0, errNotInteger
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, errNotInteger
	}
	if math.IsNaN(f) || f != math.Trunc(f) {
		return 0, errNotInteger
	}
	if f < MinPort || f > MaxPort {
		return 0, fmt.Errorf("port %s must be within range (%d..%d)", text, MinPort, MaxPort)
	}
	return int(f), nil
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

func withRuleIndex(i int, err error) error {
	var pe *Error
	if errors.As(err, &pe) {
		return &Error{Kind: pe.Kind, Msg: "rule " + strconv.Itoa(i+1) + ": " + pe.Msg, Err: pe.Err}
	}
	return err
}
