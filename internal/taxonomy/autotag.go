package taxonomy

import (
	"sort"
	"strings"
)

// Suggestion sources.
const (
	SourceRule         = "rule"
	SourceHierarchyFit = "hierarchy-fit"
)

// Suggestion is one proposed tag with the reason it was proposed.
type Suggestion struct {
	Tag    string `json:"tag"`
	Source string `json:"source"`
	Reason string `json:"reason,omitempty"`
}

// Suggester proposes tags for document content from the schema's auto-tag
// rules and from taxonomy-description vocabulary overlap. Pure function of
// its inputs: no state, deterministic output.
type Suggester struct {
	def *Definition
}

// NewSuggester creates a Suggester bound to the given definition.
func NewSuggester(def *Definition) *Suggester {
	return &Suggester{def: def}
}

// Suggest evaluates every auto-tag rule and every described taxonomy branch
// against content, skipping tags already present in existing.
func (s *Suggester) Suggest(content string, existing []string) []Suggestion {
	lowered := strings.ToLower(content)
	have := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		have[Clean(t)] = struct{}{}
	}

	var out []Suggestion
	seen := make(map[string]struct{})
	add := func(tag, source, reason string) {
		tag = Clean(tag)
		if tag == "" {
			return
		}
		if _, ok := have[tag]; ok {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, Suggestion{Tag: tag, Source: source, Reason: reason})
	}

	for _, rule := range s.def.Settings().AutoTagging.Rules {
		if !rule.Trigger.matches(lowered) {
			continue
		}
		for _, t := range rule.Tags {
			add(t, SourceRule, "keyword trigger matched")
		}
	}

	for _, fit := range s.hierarchyFits(lowered) {
		add(fit, SourceHierarchyFit, "taxonomy branch matches content")
	}

	return out
}

func (t Trigger) matches(lowered string) bool {
	if len(t.Keywords) == 0 {
		return false
	}
	switch t.Type {
	case TriggerAll:
		for _, kw := range t.Keywords {
			if !strings.Contains(lowered, strings.ToLower(kw)) {
				return false
			}
		}
		return true
	default: // contains / any
		for _, kw := range t.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return true
			}
		}
		return false
	}
}

// hierarchyFits walks the schema and, for every node whose description shares
// vocabulary with the content, proposes up to 3 of its best-matching children.
func (s *Suggester) hierarchyFits(lowered string) []string {
	schema := s.def.Schema()
	var fits []string

	var walk func(prefix []string, n *Node)
	walk = func(prefix []string, n *Node) {
		if len(n.Children) > 0 && sharesVocabulary(n.Description, lowered) {
			type scored struct {
				tag   string
				score int
			}
			var candidates []scored
			for _, seg := range sortedKeys(n.Children) {
				child := n.Children[seg]
				score := 0
				if strings.Contains(lowered, strings.ToLower(seg)) {
					score += 2
				}
				score += overlapCount(child.Description, lowered)
				if score > 0 {
					candidates = append(candidates, scored{tag: strings.Join(append(append([]string{}, prefix...), seg), "/"), score: score})
				}
			}
			sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
			if len(candidates) > 3 {
				candidates = candidates[:3]
			}
			for _, c := range candidates {
				fits = append(fits, c.tag)
			}
		}
		for _, seg := range sortedKeys(n.Children) {
			walk(append(prefix, seg), n.Children[seg])
		}
	}
	for _, seg := range sortedKeys(schema.Tags) {
		walk([]string{seg}, schema.Tags[seg])
	}
	return fits
}

// sharesVocabulary reports whether any meaningful word of description
// appears in the lowered content.
func sharesVocabulary(description, lowered string) bool {
	return overlapCount(description, lowered) > 0
}

func overlapCount(description, lowered string) int {
	count := 0
	for _, word := range strings.Fields(strings.ToLower(description)) {
		word = strings.Trim(word, ".,;:()[]\"'")
		if len(word) < 4 {
			continue
		}
		if strings.Contains(lowered, word) {
			count++
		}
	}
	return count
}
