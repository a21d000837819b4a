package rename

import "regexp"

// BuildTagPattern compiles the inline-occurrence pattern for a cleaned tag:
// the '#' marker followed by the escaped tag, matched only when the next
// character cannot extend the tag (word character, hyphen, underscore, or a
// '/' starting a deeper segment). The boundary applies to the whole
// multi-segment tag, so the pattern for "project/old" matches neither
// "#project/oldx" nor "#project/old/sub".
//
// Every caller that rewrites or counts inline tags must go through this
// helper so boundary semantics stay identical.
func BuildTagPattern(tag string) *regexp.Regexp {
	return regexp.MustCompile(`#` + regexp.QuoteMeta(tag) + `([^A-Za-z0-9_/-]|$)`)
}

// countInline returns how many whole-token inline occurrences of the tag's
// pattern appear in text.
func countInline(re *regexp.Regexp, text []byte) int {
	return len(re.FindAllIndex(text, -1))
}

// replaceInline rewrites every whole-token occurrence with the new tag,
// preserving the boundary character and all surrounding text.
func replaceInline(re *regexp.Regexp, text []byte, newTag string) []byte {
	return re.ReplaceAll(text, []byte("#"+newTag+"${1}"))
}
