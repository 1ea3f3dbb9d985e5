package policy

// PolicyConfig is the posture policy file. It names the security groups the
// low level opens up and controls how references and output are written.
type PolicyConfig struct {
	Version        int          `yaml:"version"`
	LowComponents  []string     `yaml:"low_components"`
	ReferenceStyle string       `yaml:"reference_style,omitempty"`
	Format         FormatConfig `yaml:"format"`
}

// FormatConfig controls template serialization.
type FormatConfig struct {
	// Indent is the number of spaces per nesting level. Zero means default.
	Indent int `yaml:"indent,omitempty"`
}

// Reference styles accepted in reference_style.
const (
	ReferenceText       = "text"
	ReferenceStructural = "structural"
)

// DefaultIndent matches the two-space mapping indent CloudFormation templates
// are conventionally written with.
const DefaultIndent = 2

// DefaultLowComponents are the security groups of the standard three-tier
// layout: load balancer, container service and database.
var DefaultLowComponents = []string{"SecurityGroupALB", "SecurityGroupECS", "SecurityGroupDB"}

// Default returns the policy used when no policy file is supplied.
func Default() *PolicyConfig {
	return &PolicyConfig{
		Version:        1,
		LowComponents:  append([]string(nil), DefaultLowComponents...),
		ReferenceStyle: ReferenceText,
		Format:         FormatConfig{Indent: DefaultIndent},
	}
}
