package taxonomy

import (
	"encoding/json"
	"fmt"
)

// TriggerKind selects how an auto-tag rule matches keywords against content.
type TriggerKind string

// Supported trigger kinds. "any" is an alias for "contains".
const (
	TriggerContains TriggerKind = "contains"
	TriggerAll      TriggerKind = "all"
	TriggerAny      TriggerKind = "any"
)

// Trigger is the matching condition of an auto-tag rule.
type Trigger struct {
	Type     TriggerKind `json:"type"`
	Keywords []string    `json:"keywords"`
}

// Rule proposes tags when its trigger matches document content.
type Rule struct {
	Trigger Trigger  `json:"trigger"`
	Tags    []string `json:"tags"`
}

// AutoTagging groups the schema's auto-tag rules.
type AutoTagging struct {
	Rules []Rule `json:"rules"`
}

// DepthBounds constrains how many segments must/may appear beneath a node.
// Max == nil means unbounded.
type DepthBounds struct {
	Min int  `json:"min"`
	Max *int `json:"max"`
}

// Node is one level of the tag hierarchy.
//
// AllowCustomChildren is a tri-state: nil falls back to
// Settings.DefaultAllowCustomChildren.
type Node struct {
	Description         string           `json:"description"`
	AllowCustomChildren *bool            `json:"allowCustomChildren"`
	Depth               *DepthBounds     `json:"depth"`
	Children            map[string]*Node `json:"children"`
}

// AllowsCustom resolves the node's custom-children policy against settings.
func (n *Node) AllowsCustom(s Settings) bool {
	if n == nil {
		return s.AllowCustomRootTags
	}
	if n.AllowCustomChildren != nil {
		return *n.AllowCustomChildren
	}
	return s.DefaultAllowCustomChildren
}

// Settings are the schema-wide defaults and the auto-tag rule set.
type Settings struct {
	AllowCustomRootTags        bool        `json:"allowCustomRootTags"`
	DefaultMaxDepth            int         `json:"defaultMaxDepth"`
	DefaultAllowCustomChildren bool        `json:"defaultAllowCustomChildren"`
	AutoTagging                AutoTagging `json:"autoTagging"`
}

// Schema is the full hierarchical tag schema as loaded from JSON.
type Schema struct {
	Tags     map[string]*Node `json:"tags"`
	Settings Settings         `json:"settings"`
}

// ParseSchema decodes a JSON schema document and normalizes unknown trigger
// kinds to TriggerContains, reporting each normalization as a warning.
func ParseSchema(data []byte) (*Schema, []string, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, nil, fmt.Errorf("taxonomy: parse schema: %w", err)
	}
	if s.Tags == nil {
		s.Tags = map[string]*Node{}
	}
	var warnings []string
	for i, r := range s.Settings.AutoTagging.Rules {
		switch r.Trigger.Type {
		case TriggerContains, TriggerAll, TriggerAny:
		case "":
			s.Settings.AutoTagging.Rules[i].Trigger.Type = TriggerContains
		default:
			warnings = append(warnings, fmt.Sprintf("rule %d: unknown trigger type %q, treating as contains", i, r.Trigger.Type))
			s.Settings.AutoTagging.Rules[i].Trigger.Type = TriggerContains
		}
	}
	return &s, warnings, nil
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

// DefaultSchema returns the built-in permissive schema used when no schema
// file is supplied or the supplied one cannot be parsed.
func DefaultSchema() *Schema {
	return &Schema{
		Tags: map[string]*Node{
			"type": {
				Description:         "What kind of note this is",
				AllowCustomChildren: boolPtr(true),
				Children: map[string]*Node{
					"note":      {Description: "General note"},
					"daily":     {Description: "Daily journal entry"},
					"meeting":   {Description: "Meeting notes"},
					"reference": {Description: "Reference material"},
				},
			},
			"status": {
				Description:         "Lifecycle state of the note",
				AllowCustomChildren: boolPtr(true),
				Children: map[string]*Node{
					"draft":    {Description: "Work in progress"},
					"review":   {Description: "Ready for review"},
					"complete": {Description: "Finished"},
					"archived": {Description: "No longer active"},
				},
			},
			"project": {
				Description:         "Project the note belongs to",
				AllowCustomChildren: boolPtr(true),
				Depth:               &DepthBounds{Min: 0, Max: intPtr(3)},
			},
			"area": {
				Description:         "Ongoing area of responsibility",
				AllowCustomChildren: boolPtr(true),
				Depth:               &DepthBounds{Min: 0, Max: intPtr(2)},
			},
		},
		Settings: Settings{
			AllowCustomRootTags:        true,
			DefaultMaxDepth:            4,
			DefaultAllowCustomChildren: true,
		},
	}
}
