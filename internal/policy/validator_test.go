package policy_test

import (
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/sg-posture/internal/policy"
)

// ── happy path ────────────────────────────────────────────────────────────────

func TestValidate_DefaultConfig(t *testing.T) {
	errs := policy.Validate(policy.Default())
	if len(errs) != 0 {
		t.Errorf("expected no errors; got %d: %v", len(errs), errs)
	}
}

func TestValidate_ZeroOptionalFieldsAccepted(t *testing.T) {
	// reference_style="" and indent=0 mean "use the default".
	cfg := &policy.PolicyConfig{
		Version:       1,
		LowComponents: []string{"SecurityGroupWeb"},
	}
	errs := policy.Validate(cfg)
	if len(errs) != 0 {
		t.Errorf("expected no errors; got %v", errs)
	}
}

// ── version ───────────────────────────────────────────────────────────────────

func TestValidate_InvalidVersion(t *testing.T) {
	cfg := policy.Default()
	cfg.Version = 2
	errs := policy.Validate(cfg)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error; got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Error(), "version") {
		t.Errorf("error should mention version; got %v", errs[0])
	}
}

// ── low_components ────────────────────────────────────────────────────────────

func TestValidate_EmptyLowComponents(t *testing.T) {
	cfg := policy.Default()
	cfg.LowComponents = nil
	if errs := policy.Validate(cfg); len(errs) == 0 {
		t.Fatal("expected low_components error; got none")
	}
}

func TestValidate_InvalidLogicalID(t *testing.T) {
	for _, name := range []string{"", "Security-Group", "SG ALB", "sg.alb"} {
		cfg := policy.Default()
		cfg.LowComponents = []string{name}
		if errs := policy.Validate(cfg); len(errs) == 0 {
			t.Errorf("component %q: expected error; got none", name)
		}
	}
}

func TestValidate_DuplicateComponent(t *testing.T) {
	cfg := policy.Default()
	cfg.LowComponents = []string{"SecurityGroupALB", "SecurityGroupALB"}
	errs := policy.Validate(cfg)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error; got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Error(), "duplicate") {
		t.Errorf("error should mention duplicate; got %v", errs[0])
	}
}

// ── reference_style / format ──────────────────────────────────────────────────

func TestValidate_InvalidReferenceStyle(t *testing.T) {
	cfg := policy.Default()
	cfg.ReferenceStyle = "fuzzy"
	if errs := policy.Validate(cfg); len(errs) == 0 {
		t.Fatal("expected reference_style error; got none")
	}
}

func TestValidate_IndentBounds(t *testing.T) {
	cases := map[int]bool{1: false, 2: true, 4: true, 9: true, 10: false, -3: false}
	for indent, ok := range cases {
		cfg := policy.Default()
		cfg.Format.Indent = indent
		errs := policy.Validate(cfg)
		if ok && len(errs) != 0 {
			t.Errorf("indent %d: expected no errors; got %v", indent, errs)
		}
		if !ok && len(errs) == 0 {
			t.Errorf("indent %d: expected error; got none", indent)
		}
	}
}

// ── multiple errors ───────────────────────────────────────────────────────────

func TestValidate_MultipleErrorsAggregated(t *testing.T) {
	// Invalid version, an invalid ID, a duplicate, a bad style and a bad indent.
	cfg := &policy.PolicyConfig{
		Version:        3,
		LowComponents:  []string{"ok", "not ok", "ok"},
		ReferenceStyle: "regex",
		Format:         policy.FormatConfig{Indent: 12},
	}
	errs := policy.Validate(cfg)
	if len(errs) != 5 {
		t.Errorf("expected 5 errors; got %d: %v", len(errs), errs)
	}
}

func TestValidate_NilConfig(t *testing.T) {
	errs := policy.Validate(nil)
	if len(errs) == 0 {
		t.Fatal("expected error for nil config; got none")
	}
}
