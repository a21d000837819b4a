// Package models defines the domain types for Eihwaz.
package models

import "time"

// Note represents a parsed Markdown file in the vault.
type Note struct {
	Path        string                 `json:"path"`
	Content     []byte                 `json:"-"`
	Body        string                 `json:"body"`
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Checksum    string                 `json:"checksum"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagUsage is one vocabulary entry with its occurrence count across the vault.
type TagUsage struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
