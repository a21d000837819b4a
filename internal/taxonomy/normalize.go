// Package taxonomy implements the hierarchical tag schema: normalization,
// schema-driven validation, similarity matching, and rule-driven suggestion.
package taxonomy

import "strings"

// Clean normalizes a raw tag string: trims whitespace and strips any leading
// '#' markers. Cleaning an already-clean tag returns it unchanged.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "#")
	return strings.TrimSpace(s)
}

// CleanList maps Clean over raws, dropping entries that clean to empty.
// Order is preserved and duplicates are kept; callers de-duplicate where needed.
func CleanList(raws []string) []string {
	out := make([]string, 0, len(raws))
	for _, r := range raws {
		if c := Clean(r); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Segments splits a cleaned tag into its '/'-delimited components.
func Segments(tag string) []string {
	return strings.Split(tag, "/")
}
