package policy

import (
	"reflect"
	"testing"
)

func TestApplyOverrides_NoOverrides(t *testing.T) {
	cfg := &PolicyConfig{
		Version:        1,
		LowComponents:  []string{"SecurityGroupWeb"},
		ReferenceStyle: ReferenceStructural,
		Format:         FormatConfig{Indent: 4},
	}

	result := ApplyOverrides(cfg, Overrides{})

	if !reflect.DeepEqual(result, cfg) {
		t.Fatalf("expected unchanged config; got %+v", result)
	}
	if result == cfg {
		t.Fatalf("expected a copy, got the same pointer")
	}
}

func TestApplyOverrides_ComponentsReplaceList(t *testing.T) {
	result := ApplyOverrides(Default(), Overrides{LowComponents: []string{"SecurityGroupBastion"}})

	want := []string{"SecurityGroupBastion"}
	if !reflect.DeepEqual(result.LowComponents, want) {
		t.Fatalf("expected %v; got %v", want, result.LowComponents)
	}
}

func TestApplyOverrides_ScalarOverrides(t *testing.T) {
	result := ApplyOverrides(Default(), Overrides{ReferenceStyle: ReferenceStructural, Indent: 3})

	if result.ReferenceStyle != ReferenceStructural {
		t.Fatalf("expected structural; got %q", result.ReferenceStyle)
	}
	if result.Format.Indent != 3 {
		t.Fatalf("expected indent 3; got %d", result.Format.Indent)
	}
}

func TestApplyOverrides_NilConfigUsesDefault(t *testing.T) {
	result := ApplyOverrides(nil, Overrides{})

	if !reflect.DeepEqual(result, Default()) {
		t.Fatalf("expected default config; got %+v", result)
	}
}

func TestApplyOverrides_DoesNotMutateInput(t *testing.T) {
	cfg := Default()
	result := ApplyOverrides(cfg, Overrides{})
	result.LowComponents[0] = "Changed"

	if cfg.LowComponents[0] != "SecurityGroupALB" {
		t.Fatalf("input config was mutated: %v", cfg.LowComponents)
	}
}
