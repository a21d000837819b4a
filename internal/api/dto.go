package api

import (
	"time"

	"github.com/starford/eihwaz/internal/models"
	"github.com/starford/eihwaz/internal/tagservice"
	"github.com/starford/eihwaz/internal/taxonomy"
)

// ValidateTagsRequest is the request body for tag validation.
type ValidateTagsRequest struct {
	Content string   `json:"content" example:"# Meeting notes\nDiscussed the launch."`
	Tags    []string `json:"tags" example:"project/acme,status/draft" validate:"required"`
}

// SuggestTagsRequest is the request body for tag suggestion.
type SuggestTagsRequest struct {
	Content      string   `json:"content" example:"# Meeting notes" validate:"required"`
	ExistingTags []string `json:"existingTags" example:"status/draft"`
}

// RenameTagRequest is the request body for a vault-wide rename. The scope
// flags are pointers so that an omitted flag defaults to true.
type RenameTagRequest struct {
	OldTag             string `json:"oldTag" example:"project/old-name" validate:"required"`
	NewTag             string `json:"newTag" example:"project/new-name" validate:"required"`
	Preview            bool   `json:"preview" example:"false"`
	IncludeInline      *bool  `json:"includeInline,omitempty"`
	IncludeFrontmatter *bool  `json:"includeFrontmatter,omitempty"`
}

// ValidationResponse is the tag validation result (aliased from the domain layer).
type ValidationResponse = tagservice.ValidationResult

// SuggestResponse wraps tag suggestions.
type SuggestResponse struct {
	Suggestions []taxonomy.Suggestion `json:"suggestions" validate:"required"`
}

// SimilarResponse wraps similarity matches for one probe tag.
type SimilarResponse struct {
	Tag     string           `json:"tag" example:"project" validate:"required"`
	Matches []taxonomy.Match `json:"matches" validate:"required"`
}

// TaxonomyResponse is the schema overview (aliased from the domain layer).
type TaxonomyResponse = tagservice.TaxonomyOverview

// NoteDetail is the full note response shape.
type NoteDetail struct {
	Path        string                 `json:"path" example:"notes/hello.md" validate:"required"`
	Title       string                 `json:"title,omitempty" example:"Hello"`
	Body        string                 `json:"body"`
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty"`
	Tags        []string               `json:"tags" example:"project/acme"`
}

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	Path      string    `json:"path" example:"notes/hello.md" validate:"required"`
	Title     string    `json:"title" example:"Hello"`
	Tags      []string  `json:"tags" example:"project/acme"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"notes/hello.md" validate:"required"`
	Title   string `json:"title" example:"Hello" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// TagListResponse wraps the in-use tag vocabulary with usage counts.
type TagListResponse struct {
	Tags []models.TagUsage `json:"tags" validate:"required"`
}
