package policy

import (
	"fmt"
	"regexp"
)

// validReferenceStyles is the set of accepted reference_style values.
var validReferenceStyles = map[string]struct{}{
	ReferenceText:       {},
	ReferenceStructural: {},
}

// logicalID matches a CloudFormation logical resource ID.
var logicalID = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Indent bounds supported by the YAML emitter.
const (
	minIndent = 2
	maxIndent = 9
)

// Validate checks cfg for semantic correctness and returns all validation errors
// found. An empty slice means the config is valid.
//
// Checks performed:
//   - version must be 1
//   - low_components must be non-empty, alphanumeric and free of duplicates
//   - reference_style must be text or structural if set
//   - format.indent must be between 2 and 9 if set
//
// All errors are collected before returning; Validate never stops at the first error.
func Validate(cfg *PolicyConfig) []error {
	if cfg == nil {
		return []error{fmt.Errorf("policy config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, fmt.Errorf("version: unsupported value %d; must be 1", cfg.Version))
	}

	if len(cfg.LowComponents) == 0 {
		errs = append(errs, fmt.Errorf("low_components: must name at least one security group"))
	}
	seen := make(map[string]struct{}, len(cfg.LowComponents))
	for i, name := range cfg.LowComponents {
		if !logicalID.MatchString(name) {
			errs = append(errs, fmt.Errorf("low_components[%d]: invalid logical ID %q", i, name))
			continue
		}
		if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("low_components[%d]: duplicate component %q", i, name))
		}
		seen[name] = struct{}{}
	}

	if cfg.ReferenceStyle != "" {
		if _, ok := validReferenceStyles[cfg.ReferenceStyle]; !ok {
			errs = append(errs, fmt.Errorf("reference_style: invalid value %q; valid values: text, structural", cfg.ReferenceStyle))
		}
	}

	if cfg.Format.Indent != 0 && (cfg.Format.Indent < minIndent || cfg.Format.Indent > maxIndent) {
		errs = append(errs, fmt.Errorf("format.indent: invalid value %d; must be between %d and %d", cfg.Format.Indent, minIndent, maxIndent))
	}

	return errs
}
