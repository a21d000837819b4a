package taxonomy

import (
	"errors"
	"fmt"
	"strings"
)

// Violation is a single tag's failure against the schema. It is advisory:
// callers surface it as a warning and never block content on it.
type Violation struct {
	Tag    string
	Reason string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Tag, v.Reason)
}

// Validator checks candidate tags against a taxonomy Definition.
type Validator struct {
	def *Definition
}

// NewValidator creates a Validator bound to the given definition.
func NewValidator(def *Definition) *Validator {
	return &Validator{def: def}
}

// Validate walks the cleaned tag through the schema tree.
//
// Known segments descend the tree. The first unknown segment enters custom
// territory: allowed at the root only when settings permit custom root tags,
// and below the root only when the nearest matched ancestor allows custom
// children and its depth budget is not exhausted. Once custom territory is
// entered the remaining segments form a free subtree. A fully known path must
// satisfy the depth bounds of the node that defines them.
func (v *Validator) Validate(tag string) error {
	cleaned := Clean(tag)
	if cleaned == "" {
		return &Violation{Tag: tag, Reason: "empty tag"}
	}

	schema := v.def.Schema()
	settings := schema.Settings
	segs := Segments(cleaned)

	children := schema.Tags
	var anchor *Node
	anchorIdx := -1
	scope := depthScope{definerIdx: -1}

	for i, seg := range segs {
		var next *Node
		if children != nil {
			next = children[seg]
		}
		if next != nil {
			anchor = next
			anchorIdx = i
			if next.Depth != nil {
				scope = depthScope{definerIdx: i, min: next.Depth.Min, max: next.Depth.Max}
			}
			children = next.Children
			continue
		}

		// Unknown segment: custom territory.
		if i == 0 {
			if !settings.AllowCustomRootTags {
				return &Violation{Tag: cleaned, Reason: fmt.Sprintf("root tag %q not defined", seg)}
			}
			if settings.DefaultMaxDepth > 0 && len(segs) > settings.DefaultMaxDepth {
				return &Violation{Tag: cleaned, Reason: fmt.Sprintf("exceeds maximum depth of %d", settings.DefaultMaxDepth)}
			}
			return nil
		}
		if !anchor.AllowsCustom(settings) {
			path := strings.Join(segs[:anchorIdx+1], "/")
			return &Violation{Tag: cleaned, Reason: fmt.Sprintf("custom children not allowed under %q", path)}
		}
		if scope.definerIdx >= 0 && scope.max != nil {
			if beyond := len(segs) - 1 - scope.definerIdx; beyond > *scope.max {
				return &Violation{Tag: cleaned, Reason: fmt.Sprintf("exceeds maximum depth of %d", *scope.max)}
			}
		}
		// Free subtree from here on.
		return nil
	}

	// Every segment matched a known node: enforce the defining node's bounds.
	if scope.definerIdx >= 0 {
		beyond := len(segs) - 1 - scope.definerIdx
		if beyond < scope.min {
			return &Violation{Tag: cleaned, Reason: fmt.Sprintf("requires at least %d level(s) of children", scope.min)}
		}
		if scope.max != nil && beyond > *scope.max {
			return &Violation{Tag: cleaned, Reason: fmt.Sprintf("exceeds maximum depth of %d", *scope.max)}
		}
	}
	return nil
}

// ValidateBatch validates every tag and joins all violations into a single
// error rather than failing fast. Nil when every tag passes.
func (v *Validator) ValidateBatch(tags []string) error {
	var errs []error
	for _, t := range tags {
		if err := v.Validate(t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
