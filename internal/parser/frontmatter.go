package parser

import (
	"bytes"
	"time"

	"gopkg.in/yaml.v3"
)

// ReplaceFrontmatterTag rewrites the frontmatter "tags" field, replacing
// every element (or the scalar value) exactly equal to oldTag with newTag.
// The body is left byte-for-byte untouched; only the frontmatter block is
// re-serialized, and only when at least one replacement happened. Documents
// without frontmatter, or with unparseable frontmatter, pass through
// unchanged with a zero count.
func ReplaceFrontmatterTag(data []byte, oldTag, newTag string) ([]byte, int) {
	fmRaw, body, ok := SplitRaw(data)
	if !ok {
		return data, 0
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(fmRaw, &doc); err != nil {
		return data, 0
	}
	mapping := documentMapping(&doc)
	if mapping == nil {
		return data, 0
	}

	count := 0
	if value := mappingValue(mapping, "tags"); value != nil {
		switch value.Kind {
		case yaml.SequenceNode:
			for _, item := range value.Content {
				if item.Kind == yaml.ScalarNode && item.Value == oldTag {
					item.Value = newTag
					count++
				}
			}
		case yaml.ScalarNode:
			if value.Value == oldTag {
				value.Value = newTag
				count++
			}
		}
	}
	if count == 0 {
		return data, 0
	}

	out, err := renderFrontmatter(mapping, body)
	if err != nil {
		return data, 0
	}
	return out, count
}

// StampUpdated sets the frontmatter "updated" field to ts. Documents without
// an existing frontmatter block are returned unchanged: stamping never adds a
// metadata block that was not already there.
func StampUpdated(data []byte, ts time.Time) []byte {
	fmRaw, body, ok := SplitRaw(data)
	if !ok {
		return data
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(fmRaw, &doc); err != nil {
		return data
	}
	mapping := documentMapping(&doc)
	if mapping == nil {
		return data
	}

	stamp := ts.Format("2006-01-02 15:04")
	if value := mappingValue(mapping, "updated"); value != nil {
		value.SetString(stamp)
	} else {
		var key, val yaml.Node
		key.SetString("updated")
		val.SetString(stamp)
		mapping.Content = append(mapping.Content, &key, &val)
	}

	out, err := renderFrontmatter(mapping, body)
	if err != nil {
		return data
	}
	return out
}

// documentMapping returns the top-level mapping node of a parsed frontmatter
// document, or nil when the frontmatter is not a mapping.
func documentMapping(doc *yaml.Node) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	if m := doc.Content[0]; m.Kind == yaml.MappingNode {
		return m
	}
	return nil
}

// mappingValue returns the value node for key, or nil.
func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func renderFrontmatter(mapping *yaml.Node, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(mapping); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.WriteString("---\n")
	out.Write(buf.Bytes())
	out.WriteString("---\n")
	out.Write(body)
	return out.Bytes(), nil
}
