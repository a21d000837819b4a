package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/eihwaz/internal/apperr"
	"github.com/starford/eihwaz/internal/rename"
	"github.com/starford/eihwaz/internal/tagservice"
	"github.com/starford/eihwaz/internal/taxonomy"
)

// Handler holds API route handlers.
type Handler struct {
	svc *tagservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *tagservice.Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path from the URL (everything after /api/notes/).
// Supports encoded slashes from OpenAPI clients (e.g. topics%2Fnote.md).
func notePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ValidateTags handles POST /api/tags/validate.
//
//	@Summary		Validate proposed tags against the taxonomy
//	@Tags			tags
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ValidateTagsRequest	true	"Content and proposed tags"
//	@Success		200		{object}	ValidationResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tags/validate [post]
func (h *Handler) ValidateTags(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req ValidateTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	result, err := h.svc.ValidateContent(r.Context(), req.Content, req.Tags)
	if err != nil {
		slog.Error("validate tags failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SuggestTags handles POST /api/tags/suggest.
//
//	@Summary		Suggest tags for content
//	@Tags			tags
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SuggestTagsRequest	true	"Content to tag"
//	@Success		200		{object}	SuggestResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tags/suggest [post]
func (h *Handler) SuggestTags(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req SuggestTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}
	suggestions := h.svc.Suggest(r.Context(), req.Content, req.ExistingTags)
	writeJSON(w, http.StatusOK, SuggestResponse{Suggestions: suggestions})
}

// RenameTag handles POST /api/tags/rename.
//
//	@Summary		Rename a tag across the whole vault
//	@Tags			tags
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RenameTagRequest	true	"Rename request"
//	@Success		200		{object}	rename.Report
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tags/rename [post]
func (h *Handler) RenameTag(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req RenameTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	// Scope flags default to true when omitted.
	includeInline := req.IncludeInline == nil || *req.IncludeInline
	includeFrontmatter := req.IncludeFrontmatter == nil || *req.IncludeFrontmatter

	report, err := h.svc.RenameTag(r.Context(), rename.Request{
		OldTag:             req.OldTag,
		NewTag:             req.NewTag,
		Preview:            req.Preview,
		IncludeInline:      includeInline,
		IncludeFrontmatter: includeFrontmatter,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidRename) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("rename tag failed",
			slog.String("oldTag", req.OldTag),
			slog.String("newTag", req.NewTag),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// SimilarTags handles GET /api/tags/similar.
//
//	@Summary		Find tags similar to the given one
//	@Tags			tags
//	@Produce		json
//	@Param			tag			query		string	true	"Probe tag"
//	@Param			threshold	query		number	false	"Minimum similarity score"
//	@Success		200			{object}	SimilarResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tags/similar [get]
func (h *Handler) SimilarTags(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	if tag == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'tag' is required"))
		return
	}
	threshold, _ := strconv.ParseFloat(r.URL.Query().Get("threshold"), 64)

	matches, err := h.svc.SimilarTags(r.Context(), tag, threshold)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if matches == nil {
		matches = []taxonomy.Match{}
	}
	writeJSON(w, http.StatusOK, SimilarResponse{Tag: tag, Matches: matches})
}

// ListTags handles GET /api/tags.
//
//	@Summary		List every tag in use with its note count
//	@Tags			tags
//	@Produce		json
//	@Success		200	{object}	TagListResponse
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListTags(r.Context())
	if err != nil {
		slog.Error("list tags failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, TagListResponse{Tags: tags})
}

// Taxonomy handles GET /api/taxonomy.
//
//	@Summary		Get the loaded tag schema with usage counts
//	@Tags			tags
//	@Produce		json
//	@Success		200	{object}	TaxonomyResponse
//	@Security		BearerAuth
//	@Router			/taxonomy [get]
func (h *Handler) Taxonomy(w http.ResponseWriter, r *http.Request) {
	overview, err := h.svc.Taxonomy(r.Context())
	if err != nil {
		slog.Error("taxonomy overview failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes with optional pagination and tag filtering
//	@Tags			notes
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			tag		query		string	false	"Filter by exact tag"
//	@Success		200		{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	tag := q.Get("tag")

	rows, total, err := h.svc.ListNotes(r.Context(), limit, offset, tag)
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	items := make([]NoteListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, NoteListItem{
			Path:      row.Path,
			Title:     row.Title,
			Tags:      row.Tags,
			UpdatedAt: row.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items, Total: total})
}

// GetNote handles GET /api/notes/*.
//
//	@Summary		Get a single note by path
//	@Tags			notes
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	NoteDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	note, err := h.svc.GetNote(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get note failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, NoteDetail{
		Path:        note.Path,
		Title:       note.Title,
		Body:        note.Body,
		Frontmatter: note.Frontmatter,
		Tags:        note.Tags,
	})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across notes
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}
