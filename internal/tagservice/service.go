// Package tagservice coordinates the tag engine: schema validation,
// suggestion, similarity search, and rename propagation over the vault.
package tagservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/eihwaz/internal/apperr"
	"github.com/starford/eihwaz/internal/index"
	"github.com/starford/eihwaz/internal/models"
	"github.com/starford/eihwaz/internal/parser"
	"github.com/starford/eihwaz/internal/rename"
	"github.com/starford/eihwaz/internal/storage"
	"github.com/starford/eihwaz/internal/taxonomy"
)

// Warning severities and types surfaced by ValidateContent.
const (
	SeverityWarning = "warning"
	SeverityInfo    = "info"

	WarnTaxonomy = "taxonomy"
	WarnNewTag   = "new-tag"
)

// suggestionThreshold bounds the similarity for offering an alternative tag
// alongside a taxonomy warning. The best match must score strictly above it.
const suggestionThreshold = 0.85

// Warning is one per-tag advisory in a validation result. Warnings never
// block content; they only inform tag acceptance.
type Warning struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Severity   string `json:"severity"`
}

// ValidationResult is the output of the validate/suggest tool contract.
type ValidationResult struct {
	Valid       bool                  `json:"valid"`
	Tags        []string              `json:"tags"`
	Warnings    []Warning             `json:"warnings"`
	Suggestions []taxonomy.Suggestion `json:"suggestions"`
}

// TaxonomyOverview describes the loaded schema for callers.
type TaxonomyOverview struct {
	Tags     []taxonomy.DefinedTag `json:"tags"`
	Warnings []string              `json:"warnings,omitempty"`
	Usage    []models.TagUsage     `json:"usage,omitempty"`
}

// Service wires the taxonomy engine to storage and the tag index.
type Service struct {
	store     storage.Provider
	db        *index.DB
	def       *taxonomy.Definition
	validator *taxonomy.Validator
	suggester *taxonomy.Suggester
	prop      *rename.Propagator
	logger    *slog.Logger

	// OnRename, when set, is invoked after a non-preview rename completes.
	OnRename func(report *rename.Report)
}

// New creates a Service. The taxonomy handle is injected by the caller,
// which owns its lifecycle (load, reload, teardown).
func New(store storage.Provider, db *index.DB, def *taxonomy.Definition, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		db:        db,
		def:       def,
		validator: taxonomy.NewValidator(def),
		suggester: taxonomy.NewSuggester(def),
		prop:      rename.NewPropagator(&vaultDocs{store: store}, logger),
		logger:    logger,
	}
}

// Definition exposes the injected taxonomy handle (for reload wiring).
func (s *Service) Definition() *taxonomy.Definition { return s.def }

// ValidateContent checks the proposed tags against the schema and proposes
// additional tags for the content. Schema violations are reported as
// warnings with a suggested alternative when a close-enough valid tag
// exists; a violation without a good alternative is an informational
// "new tag" notice. Validation never blocks writing content.
func (s *Service) ValidateContent(_ context.Context, content string, proposed []string) (*ValidationResult, error) {
	cleaned := taxonomy.CleanList(proposed)
	result := &ValidationResult{
		Valid:    true,
		Tags:     cleaned,
		Warnings: []Warning{},
	}

	pool := s.validTagPool()
	for _, tag := range cleaned {
		err := s.validator.Validate(tag)
		if err == nil {
			continue
		}
		result.Valid = false

		var viol *taxonomy.Violation
		reason := err.Error()
		if errors.As(err, &viol) {
			reason = viol.Reason
		}

		matches := taxonomy.FindSimilar(tag, pool, suggestionThreshold)
		if len(matches) > 0 && matches[0].Score > suggestionThreshold && matches[0].Candidate != tag {
			result.Warnings = append(result.Warnings, Warning{
				Type:       WarnTaxonomy,
				Message:    fmt.Sprintf("tag %q: %s", tag, reason),
				Suggestion: matches[0].Candidate,
				Severity:   SeverityWarning,
			})
			continue
		}
		result.Warnings = append(result.Warnings, Warning{
			Type:     WarnNewTag,
			Message:  fmt.Sprintf("tag %q is not in the taxonomy: %s", tag, reason),
			Severity: SeverityInfo,
		})
	}

	result.Suggestions = s.suggester.Suggest(content, cleaned)
	return result, nil
}

// Suggest proposes tags for content, skipping tags in existing.
func (s *Service) Suggest(_ context.Context, content string, existing []string) []taxonomy.Suggestion {
	return s.suggester.Suggest(content, existing)
}

// SimilarTags ranks tags similar to the given one against the combined pool
// of schema-defined and in-use tags.
func (s *Service) SimilarTags(_ context.Context, tag string, threshold float64) ([]taxonomy.Match, error) {
	cleaned := taxonomy.Clean(tag)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty tag", apperr.ErrNotFound)
	}
	pool := s.fullTagPool()
	var filtered []string
	for _, cand := range pool {
		if cand != cleaned {
			filtered = append(filtered, cand)
		}
	}
	return taxonomy.FindSimilar(cleaned, filtered, threshold), nil
}

// RenameTag executes (or previews) a vault-wide rename. After a non-preview
// run the tag index is re-synced so usage counts match the rewritten files.
func (s *Service) RenameTag(ctx context.Context, req rename.Request) (*rename.Report, error) {
	report, err := s.prop.Rename(ctx, req)
	if err != nil {
		return nil, err
	}
	if !report.Preview && report.FilesModified > 0 {
		if err := index.Sync(s.db, s.store, s.logger); err != nil {
			s.logger.Warn("rename: index resync failed", slog.String("error", err.Error()))
		}
		if s.OnRename != nil {
			s.OnRename(report)
		}
	}
	return report, nil
}

// Taxonomy returns the flattened schema, its load warnings, and current
// vault-wide usage counts.
func (s *Service) Taxonomy(_ context.Context) (*TaxonomyOverview, error) {
	usage, err := s.db.AllTags()
	if err != nil {
		return nil, err
	}
	return &TaxonomyOverview{
		Tags:     s.def.AllDefinedTags(),
		Warnings: s.def.Warnings(),
		Usage:    usage,
	}, nil
}

// ListTags returns every tag in use with its note count.
func (s *Service) ListTags(_ context.Context) ([]models.TagUsage, error) {
	return s.db.AllTags()
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// ListNotes pages through indexed notes, optionally filtered by exact tag.
func (s *Service) ListNotes(_ context.Context, limit, offset int, tag string) ([]index.NoteRow, int, error) {
	if tag != "" {
		tag = taxonomy.Clean(tag)
	}
	return s.db.ListNotes(limit, offset, tag)
}

// NotesWithTag returns the paths of notes carrying the exact tag.
func (s *Service) NotesWithTag(_ context.Context, tag string) ([]string, error) {
	return s.db.NotesWithTag(taxonomy.Clean(tag))
}

// ReadNote returns the raw content of a vault document.
func (s *Service) ReadNote(_ context.Context, path string) ([]byte, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// GetNote reads and parses a vault document into its domain shape.
func (s *Service) GetNote(ctx context.Context, path string) (*models.Note, error) {
	data, err := s.ReadNote(ctx, path)
	if err != nil {
		return nil, err
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	return &models.Note{
		Path:        path,
		Content:     data,
		Body:        res.Body,
		Frontmatter: res.Frontmatter,
		Title:       res.Title,
		Tags:        taxonomy.CleanList(res.Tags),
	}, nil
}

// validTagPool is the set of schema-valid tags used for "did you mean"
// suggestions.
func (s *Service) validTagPool() []string {
	defined := s.def.AllDefinedTags()
	pool := make([]string, 0, len(defined))
	for _, dt := range defined {
		pool = append(pool, dt.Tag)
	}
	return pool
}

// fullTagPool unions schema-defined tags with tags in actual use.
func (s *Service) fullTagPool() []string {
	pool := s.validTagPool()
	seen := make(map[string]struct{}, len(pool))
	for _, t := range pool {
		seen[t] = struct{}{}
	}
	usage, err := s.db.AllTags()
	if err != nil {
		s.logger.Warn("tag pool: index lookup failed", slog.String("error", err.Error()))
		return pool
	}
	for _, u := range usage {
		if _, ok := seen[u.Tag]; !ok {
			seen[u.Tag] = struct{}{}
			pool = append(pool, u.Tag)
		}
	}
	return pool
}

// vaultDocs adapts the storage provider to the rename.DocumentSet contract.
type vaultDocs struct {
	store storage.Provider
}

func (v *vaultDocs) List() ([]string, error) {
	metas, err := v.store.List("")
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(metas))
	for i, m := range metas {
		paths[i] = m.Path
	}
	return paths, nil
}

func (v *vaultDocs) Read(path string) ([]byte, error) {
	return v.store.Read(path)
}

func (v *vaultDocs) Write(path string, content []byte) error {
	return v.store.Write(path, content)
}
