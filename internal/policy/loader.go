package policy

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPolicy reads a policy file from path. Fields left out of the file take
// their values from Default.
func LoadPolicy(path string) (*PolicyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg PolicyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Version != 1 {
		return nil, errors.New("unsupported policy version")
	}

	def := Default()
	if cfg.LowComponents == nil {
		cfg.LowComponents = def.LowComponents
	}

	if cfg.ReferenceStyle == "" {
		cfg.ReferenceStyle = def.ReferenceStyle
	}

	if cfg.Format.Indent == 0 {
		cfg.Format.Indent = def.Format.Indent
	}

	return &cfg, nil
}
