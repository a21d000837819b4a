package taxonomy

import (
	"strings"
	"testing"
)

func TestValidate_KnownPaths(t *testing.T) {
	v := NewValidator(testDefinition(t))
	for _, tag := range []string{"status", "status/draft", "status/review", "project", "project/eihwaz"} {
		if err := v.Validate(tag); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", tag, err)
		}
	}
}

func TestValidate_EmptyTag(t *testing.T) {
	v := NewValidator(testDefinition(t))
	for _, tag := range []string{"", "   ", "#"} {
		if err := v.Validate(tag); err == nil {
			t.Errorf("Validate(%q) should fail", tag)
		}
	}
}

func TestValidate_CustomChildrenDenied(t *testing.T) {
	// Scenario: status has fixed children and allowCustomChildren=false.
	v := NewValidator(testDefinition(t))
	err := v.Validate("status/custom")
	if err == nil {
		t.Fatal("expected violation")
	}
	if !strings.Contains(err.Error(), `custom children not allowed under "status"`) {
		t.Errorf("unexpected reason: %v", err)
	}
}

func TestValidate_MinDepth(t *testing.T) {
	// Scenario: area has depth.min=1, so the bare root is not a valid tag.
	v := NewValidator(testDefinition(t))
	err := v.Validate("area")
	if err == nil {
		t.Fatal("expected violation")
	}
	if !strings.Contains(err.Error(), "requires at least 1 level(s) of children") {
		t.Errorf("unexpected reason: %v", err)
	}
	if err := v.Validate("area/finance"); err != nil {
		t.Errorf("area/finance should pass: %v", err)
	}
}

func TestValidate_MaxDepthOnCustomSubtree(t *testing.T) {
	v := NewValidator(testDefinition(t))
	// area allows custom children with depth.max=2.
	if err := v.Validate("area/finance/tax"); err != nil {
		t.Errorf("depth 2 should pass: %v", err)
	}
	err := v.Validate("area/finance/tax/2025")
	if err == nil {
		t.Fatal("expected depth violation")
	}
	if !strings.Contains(err.Error(), "exceeds maximum depth of 2") {
		t.Errorf("unexpected reason: %v", err)
	}
}

func TestValidate_CustomRootTags(t *testing.T) {
	strict := NewValidator(testDefinition(t))
	err := strict.Validate("random")
	if err == nil || !strings.Contains(err.Error(), `root tag "random" not defined`) {
		t.Errorf("strict schema should reject custom roots: %v", err)
	}

	permissive := NewValidator(Load("", nil))
	if err := permissive.Validate("random/anything/goes"); err != nil {
		t.Errorf("permissive schema should accept custom roots: %v", err)
	}
	if err := permissive.Validate("a/b/c/d/e"); err == nil {
		t.Error("custom root deeper than defaultMaxDepth should fail")
	}
}

func TestValidate_MarkerAndWhitespaceNormalized(t *testing.T) {
	v := NewValidator(testDefinition(t))
	if err := v.Validate("  #status/draft "); err != nil {
		t.Errorf("cleaned form should pass: %v", err)
	}
}

func TestValidate_AllDefinedTagsPass(t *testing.T) {
	def := testDefinition(t)
	v := NewValidator(def)
	for _, dt := range def.AllDefinedTags() {
		if err := v.Validate(dt.Tag); err != nil {
			t.Errorf("defined tag %q failed validation: %v", dt.Tag, err)
		}
	}
}

func TestValidateBatch_CollectsAllFailures(t *testing.T) {
	v := NewValidator(testDefinition(t))
	err := v.ValidateBatch([]string{"status/draft", "status/custom", "area", "project/x"})
	if err == nil {
		t.Fatal("expected aggregate error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "status/custom") || !strings.Contains(msg, "area") {
		t.Errorf("aggregate should list every failure: %v", msg)
	}
	if strings.Contains(msg, "project/x") {
		t.Errorf("passing tag leaked into aggregate: %v", msg)
	}

	if err := v.ValidateBatch([]string{"status/draft"}); err != nil {
		t.Errorf("all-valid batch should return nil: %v", err)
	}
}
