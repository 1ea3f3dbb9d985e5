// Package posture rewrites the security group ingress rules of a template to
// match a security level.
//
// A run has two steps. Validate checks the level and the rules and resolves
// each referenced security group once, producing a Plan; it never mutates the
// template, so a failing run leaves nothing half-written. Apply then carries
// out the Plan:
//
//   - low deletes every ingress rule referencing each configured component
//     and adds one allow-all rule per component, keyed <component>IngressAllowAll.
//   - medium adds or overwrites one rule per input rule, open to 0.0.0.0/0.
//   - high does the same restricted to each rule's source.
//
// Rule keys are deterministic, so running the same level and rules twice
// yields the same template as running them once.
package posture

import (
	"log/slog"

	"github.com/pankaj-dahiya-devops/sg-posture/internal/models"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/policy"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/template"
)

// Options configures an Engine.
type Options struct {
	// LowComponents are the security groups opened by the low level.
	// Defaults to policy.DefaultLowComponents.
	LowComponents []string

	// References selects how GroupId values are matched and written.
	References ReferenceStyle

	// Logger receives the mutation trail. Defaults to a discarding logger.
	Logger *slog.Logger
}

// Engine validates and applies rule sets.
type Engine struct {
	lowComponents []string
	refs          ReferenceStyle
	logger        *slog.Logger
}

// NewEngine returns an Engine configured by opts.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		lowComponents: opts.LowComponents,
		refs:          opts.References,
		logger:        opts.Logger,
	}
	if len(e.lowComponents) == 0 {
		e.lowComponents = policy.DefaultLowComponents
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return e
}

// Action is what Apply did to one resource.
type Action string

const (
	ActionRemoved  Action = "removed"
	ActionAdded    Action = "added"
	ActionReplaced Action = "replaced"
)

// Change records one resource touched by Apply. Rule is the zero value for
// removals.
type Change struct {
	Action    Action
	Key       string
	Component string
	Rule      IngressRule
}

// Run validates rules against store and applies them.
func (e *Engine) Run(store *template.Store, level string, rules []models.Rule) ([]Change, error) {
	plan, err := e.Validate(level, rules, store)
	if err != nil {
		return nil, err
	}
	return e.Apply(plan), nil
}

// Apply mutates the plan's store and returns the changes in the order they
// were made.
func (e *Engine) Apply(plan *Plan) []Change {
	if plan.Level == models.LevelLow {
		return e.applyLow(plan)
	}

	var changes []Change
	for _, p := range plan.Permissions {
		changes = append(changes, e.put(plan.store, fromPermission(plan.Level, p)))
	}
	return changes
}

func (e *Engine) applyLow(plan *Plan) []Change {
	var changes []Change
	for _, c := range plan.Targets {
		for _, key := range e.ingressKeys(plan.store, c) {
			plan.store.Delete(key)
			e.logger.Info("removed ingress rule", "key", key, "component", c.name)
			changes = append(changes, Change{Action: ActionRemoved, Key: key, Component: c.name})
		}
		changes = append(changes, e.put(plan.store, allowAll(c)))
	}
	return changes
}

// ingressKeys lists the ingress resources whose GroupId refers to c.
func (e *Engine) ingressKeys(store *template.Store, c ResolvedComponent) []string {
	var keys []string
	for _, res := range store.Resources() {
		if res.Type() != models.TypeSecurityGroupIngress {
			continue
		}
		if e.refs.Matches(res.Property("GroupId"), c.name) {
			keys = append(keys, res.Name)
		}
	}
	return keys
}

func (e *Engine) put(store *template.Store, r IngressRule) Change {
	action := ActionAdded
	if store.Has(r.Key) {
		action = ActionReplaced
	}
	store.Set(r.Key, r.Node(e.refs))
	e.logger.Info(string(action)+" ingress rule",
		"key", r.Key,
		"component", r.Component.name,
		"protocol", *r.Permission.IpProtocol,
		"port", *r.Permission.FromPort,
		"cidr", r.CidrIp(),
	)
	return Change{Action: action, Key: r.Key, Component: r.Component.name, Rule: r}
}
