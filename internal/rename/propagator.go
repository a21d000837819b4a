// Package rename implements safe, vault-wide propagation of tag renames
// across frontmatter tag lists and inline hashtag text.
package rename

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/eihwaz/internal/apperr"
	"github.com/starford/eihwaz/internal/parser"
	"github.com/starford/eihwaz/internal/taxonomy"
)

// DocumentSet is the collaborator a rename operates over. Implementations
// may block on I/O; the propagator treats each call as atomic at the
// single-document granularity only.
type DocumentSet interface {
	// List returns the paths of every document in scope.
	List() ([]string, error)
	// Read returns the raw bytes of the document at path.
	Read(path string) ([]byte, error)
	// Write persists new content for the document at path.
	Write(path string, content []byte) error
}

// Request describes one rename invocation.
type Request struct {
	OldTag             string `json:"oldTag"`
	NewTag             string `json:"newTag"`
	Preview            bool   `json:"preview"`
	IncludeInline      bool   `json:"includeInline"`
	IncludeFrontmatter bool   `json:"includeFrontmatter"`
}

// Validate rejects requests before any document is touched: both tags must
// be non-empty after cleaning, the new tag may not contain whitespace, and
// the cleaned forms must differ.
func (r Request) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.OldTag, validation.Required),
		validation.Field(&r.NewTag, validation.Required, validation.By(noWhitespace)),
	); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidRename, err)
	}
	oldClean := taxonomy.Clean(r.OldTag)
	newClean := taxonomy.Clean(r.NewTag)
	if oldClean == "" || newClean == "" {
		return fmt.Errorf("%w: tag is empty after cleaning", apperr.ErrInvalidRename)
	}
	if oldClean == newClean {
		return fmt.Errorf("%w: old and new tag are the same", apperr.ErrInvalidRename)
	}
	return nil
}

func noWhitespace(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, " \t\n\r") {
		return fmt.Errorf("must not contain whitespace")
	}
	return nil
}

// FileChange is the per-document breakdown of a rename.
type FileChange struct {
	Path               string `json:"path"`
	FrontmatterChanges int    `json:"frontmatterChanges"`
	InlineChanges      int    `json:"inlineChanges"`
}

// FileError records a document that could not be read or written. The run
// continues past it; there is no cross-file transaction to roll back.
type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Report aggregates a rename invocation.
type Report struct {
	OldTag        string       `json:"oldTag"`
	NewTag        string       `json:"newTag"`
	FilesScanned  int          `json:"filesScanned"`
	FilesModified int          `json:"filesModified"`
	Changes       []FileChange `json:"changes"`
	Errors        []FileError  `json:"errors,omitempty"`
	Preview       bool         `json:"preview"`
}

// Propagator executes renames over a DocumentSet.
type Propagator struct {
	docs   DocumentSet
	logger *slog.Logger
	now    func() time.Time
}

// NewPropagator creates a Propagator. A nil logger falls back to slog.Default.
func NewPropagator(docs DocumentSet, logger *slog.Logger) *Propagator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Propagator{docs: docs, logger: logger, now: time.Now}
}

// Rename scans every document sequentially and rewrites occurrences of the
// old tag. The frontmatter pass replaces exact matches in the tags field; the
// inline pass rewrites whole-token '#tag' occurrences in the body through
// BuildTagPattern. In preview mode no writes occur regardless of change
// counts. Per-document failures are collected into the report and processing
// continues; a document whose write fails is listed in Errors and excluded
// from FilesModified and Changes.
//
// Documents are processed one at a time on purpose: two documents may both
// mention the renamed tag in inline prose, and interleaved writes could
// expose a half-updated vocabulary.
func (p *Propagator) Rename(ctx context.Context, req Request) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	oldTag := taxonomy.Clean(req.OldTag)
	newTag := taxonomy.Clean(req.NewTag)
	pattern := BuildTagPattern(oldTag)

	paths, err := p.docs.List()
	if err != nil {
		return nil, fmt.Errorf("rename: list documents: %w", err)
	}

	report := &Report{OldTag: oldTag, NewTag: newTag, Preview: req.Preview}

	for _, path := range paths {
		report.FilesScanned++

		data, err := p.docs.Read(path)
		if err != nil {
			report.Errors = append(report.Errors, FileError{Path: path, Error: err.Error()})
			p.logger.Warn("rename: read failed", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}

		change := FileChange{Path: path}

		if req.IncludeFrontmatter {
			data, change.FrontmatterChanges = parser.ReplaceFrontmatterTag(data, oldTag, newTag)
		}
		if req.IncludeInline {
			fmRaw, body, hasFM := parser.SplitRaw(data)
			if n := countInline(pattern, body); n > 0 {
				change.InlineChanges = n
				body = replaceInline(pattern, body, newTag)
				if hasFM {
					data = parser.JoinRaw(fmRaw, body)
				} else {
					data = body
				}
			}
		}

		if change.FrontmatterChanges == 0 && change.InlineChanges == 0 {
			continue
		}

		if req.Preview {
			report.FilesModified++
			report.Changes = append(report.Changes, change)
			continue
		}

		data = parser.StampUpdated(data, p.now())
		if err := p.docs.Write(path, data); err != nil {
			report.Errors = append(report.Errors, FileError{Path: path, Error: err.Error()})
			p.logger.Warn("rename: write failed", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		report.FilesModified++
		report.Changes = append(report.Changes, change)
		p.logger.Debug("rename: rewrote document",
			slog.String("path", path),
			slog.Int("frontmatter", change.FrontmatterChanges),
			slog.Int("inline", change.InlineChanges))
	}

	return report, nil
}
