// Package parser extracts and rewrites frontmatter and inline tags in
// Markdown content.
package parser

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var tagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)

// Result holds the output of parsing a Markdown file.
type Result struct {
	Frontmatter map[string]interface{}
	Body        string
	Tags        []string
	Title       string
}

// Parse extracts frontmatter, body, and tags from raw Markdown bytes.
func Parse(data []byte) (*Result, error) {
	fm, body := splitFrontmatter(data)

	tags := extractTags(body, fm)
	title := deriveTitle(fm, body)

	return &Result{
		Frontmatter: fm,
		Body:        body,
		Tags:        tags,
		Title:       title,
	}, nil
}

// SplitRaw separates the raw YAML frontmatter block (without delimiters) from
// the body. hasFM is false when no well-formed frontmatter block exists, in
// which case body is the whole input.
func SplitRaw(data []byte) (fmRaw, body []byte, hasFM bool) {
	const delim = "---"
	if !bytes.HasPrefix(data, []byte(delim)) {
		return nil, data, false
	}
	rest := data[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, data, false
	}
	fmRaw = rest[:idx]
	// Skip the closing delimiter line including its trailing newline, if any.
	after := rest[idx+1+len(delim):]
	if len(after) > 0 && after[0] == '\n' {
		after = after[1:]
	}
	return fmRaw, after, true
}

// JoinRaw reassembles a document from a raw frontmatter block and a body that
// was produced by SplitRaw.
func JoinRaw(fmRaw, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("---")
	buf.Write(fmRaw)
	buf.WriteString("\n---\n")
	buf.Write(body)
	return buf.Bytes()
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found, or the YAML is invalid,
// the entire content is body.
func splitFrontmatter(data []byte) (map[string]interface{}, string) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	fmRaw, body, ok := SplitRaw(trimmed)
	if !ok {
		return nil, string(data)
	}
	var fm map[string]interface{}
	if err := yaml.Unmarshal(fmRaw, &fm); err != nil {
		return nil, string(data)
	}
	return fm, string(body)
}

// StructuredTags returns the frontmatter "tags" field as a list, together
// with whether the field was a YAML list (vs a single scalar). A missing or
// unusable field yields nil.
func StructuredTags(fm map[string]interface{}) (tags []string, isList bool) {
	if fm == nil {
		return nil, false
	}
	switch v := fm["tags"].(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out, true
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}, false
		}
	}
	return nil, false
}

// extractTags collects tags from the frontmatter "tags" field and inline
// #tags from the body, deduplicated, frontmatter first.
func extractTags(body string, fm map[string]interface{}) []string {
	seen := make(map[string]struct{})
	var out []string

	structured, _ := StructuredTags(fm)
	for _, s := range structured {
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}

	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		t := m[1]
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}

	return out
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]interface{}, body string) string {
	if fm != nil {
		if t, ok := fm["title"]; ok {
			if s, ok := t.(string); ok && s != "" {
				return s
			}
		}
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
