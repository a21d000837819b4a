package mcpserver

// TagFormatContract describes the canonical tag format that LLM consumers
// should follow when proposing, validating, or renaming tags.
const TagFormatContract = `# Eihwaz Tag Format Contract

Every tag used in the vault MUST follow this structure.

## Structure

A tag is a slash-separated hierarchical path:

` + "```" + `
type/meeting
project/acme/website
status/draft
` + "```" + `

Tags may be written with or without a leading ` + "`" + `#` + "`" + ` marker. Tools accept
both forms; leading ` + "`" + `#` + "`" + ` markers are stripped before any comparison,
so ` + "`" + `#project/acme` + "`" + ` and ` + "`" + `project/acme` + "`" + ` are the same tag.

## Rules

1. **Lowercase, kebab-case segments** (e.g. ` + "`" + `meeting-notes` + "`" + `, ` + "`" + `project-x` + "`" + `).
2. **Hierarchy uses forward slashes.** Each segment refines its parent:
   ` + "`" + `project/acme/website` + "`" + ` is the website work inside the Acme project.
3. **A tag and its children are distinct tags.** Renaming or filtering by
   ` + "`" + `project/acme` + "`" + ` never touches ` + "`" + `project/acme/website` + "`" + `.
4. **No whitespace inside tags.** Use hyphens instead.
5. **Prefer existing tags.** Before introducing a new tag, call
   ` + "`" + `find_similar_tags` + "`" + ` to catch plural variants and typos
   (` + "`" + `projects` + "`" + ` vs ` + "`" + `project` + "`" + `, ` + "`" + `meetng` + "`" + ` vs ` + "`" + `meeting` + "`" + `).
6. **Respect the taxonomy.** ` + "`" + `list_taxonomy` + "`" + ` shows the defined
   hierarchy; ` + "`" + `validate_tags` + "`" + ` reports whether a proposed tag fits it and
   suggests the closest valid alternative when it does not.

## Where tags live

- **Frontmatter:** the ` + "`" + `tags:` + "`" + ` YAML list (preferred for canonical tags):

` + "```" + `markdown
---
title: Weekly standup
tags:
  - type/meeting
  - project/acme
---
` + "```" + `

- **Inline:** ` + "`" + `#tag` + "`" + ` markers inside the body, e.g.
  ` + "`" + `Discussed with Bob #project/acme` + "`" + `. Inline tags end at the first
  character that is not a letter, digit, ` + "`" + `_` + "`" + `, ` + "`" + `-` + "`" + `, or ` + "`" + `/` + "`" + `.

## Renaming

` + "`" + `rename_tag` + "`" + ` rewrites a tag everywhere it appears, in frontmatter and
inline, across the whole vault. Always run it with ` + "`" + `preview: true` + "`" + ` first
and inspect the report before applying.
`
