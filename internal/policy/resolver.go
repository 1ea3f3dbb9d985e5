package policy

// Overrides carries command-line values that take precedence over the policy
// file. Zero values leave the policy setting untouched.
type Overrides struct {
	LowComponents  []string
	ReferenceStyle string
	Indent         int
}

// ApplyOverrides returns a copy of cfg with every non-zero override applied.
// A nil cfg is treated as Default().
func ApplyOverrides(cfg *PolicyConfig, o Overrides) *PolicyConfig {
	if cfg == nil {
		cfg = Default()
	}
	out := *cfg
	out.LowComponents = append([]string(nil), cfg.LowComponents...)

	// Explicit components replace the list rather than extending it.
	if len(o.LowComponents) > 0 {
		out.LowComponents = append([]string(nil), o.LowComponents...)
	}

	if o.ReferenceStyle != "" {
		out.ReferenceStyle = o.ReferenceStyle
	}

	if o.Indent != 0 {
		out.Format.Indent = o.Indent
	}

	return &out
}
