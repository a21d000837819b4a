// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the Eihwaz tag engine as tools for LLM integration via
// stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/eihwaz/internal/rename"
	"github.com/starford/eihwaz/internal/tagservice"
)

// Server wraps the MCP server with the Eihwaz tag tools.
type Server struct {
	mcp *server.MCPServer
	svc *tagservice.Service
}

// New creates a new MCP server with all tag tools registered.
func New(svc *tagservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Eihwaz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("validate_tags",
		mcp.WithDescription("Validate proposed tags against the vault's tag taxonomy. "+
			"Returns cleaned tags, per-tag warnings with suggested alternatives, and "+
			"auto-tag suggestions derived from the content. Call this before saving "+
			"tagged content. Read the tag format first via the get_tag_contract tool "+
			"or the eihwaz://tag-format resource."),
		mcp.WithArray("tags", mcp.Required(), mcp.Description("Proposed tags, with or without a leading #"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("content", mcp.Description("Optional note content used for auto-tag suggestions")),
	), s.validateTags)

	s.mcp.AddTool(mcp.NewTool("suggest_tags",
		mcp.WithDescription("Suggest taxonomy tags for a piece of content, based on "+
			"keyword rules and hierarchy fit. Optionally pass tags the content already has."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note content to derive tags from")),
		mcp.WithArray("existing_tags", mcp.Description("Tags the content already carries"),
			mcp.Items(map[string]any{"type": "string"})),
	), s.suggestTags)

	s.mcp.AddTool(mcp.NewTool("rename_tag",
		mcp.WithDescription("Rename a tag across every note in the vault, rewriting "+
			"both frontmatter and inline #tag occurrences. Set preview=true to see "+
			"the affected files without writing anything."),
		mcp.WithString("old_tag", mcp.Required(), mcp.Description("Tag to rename")),
		mcp.WithString("new_tag", mcp.Required(), mcp.Description("Replacement tag")),
		mcp.WithBoolean("preview", mcp.Description("Report changes without writing files")),
	), s.renameTag)

	s.mcp.AddTool(mcp.NewTool("find_similar_tags",
		mcp.WithDescription("Find existing tags similar to the given one (plural "+
			"variants, typos, sub-strings). Use this to avoid creating near-duplicate tags."),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Probe tag")),
		mcp.WithNumber("threshold", mcp.Description("Minimum similarity score between 0 and 1")),
	), s.findSimilarTags)

	s.mcp.AddTool(mcp.NewTool("list_taxonomy",
		mcp.WithDescription("List the vault's tag taxonomy: every defined tag with its "+
			"description, plus current usage counts."),
	), s.listTaxonomy)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through notes content and titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a Markdown note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("get_tag_contract",
		mcp.WithDescription("Returns the canonical Eihwaz tag format contract. "+
			"Call this before proposing or renaming tags to ensure correct structure."),
	), s.getTagContract)

	// Resource: tag format contract.
	s.mcp.AddResource(
		mcp.NewResource("eihwaz://tag-format", "Tag Format Contract",
			mcp.WithResourceDescription("Canonical tag format that all vault tags must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTagFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) validateTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags := req.GetStringSlice("tags", nil)
	if len(tags) == 0 {
		return mcp.NewToolResultError("tags is required"), nil
	}
	content := req.GetString("content", "")

	result, err := s.svc.ValidateContent(ctx, content, tags)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) suggestTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	existing := req.GetStringSlice("existing_tags", nil)

	suggestions := s.svc.Suggest(ctx, content, existing)
	if len(suggestions) == 0 {
		return mcp.NewToolResultText("no suggestions"), nil
	}
	out, _ := json.MarshalIndent(suggestions, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) renameTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	oldTag, err := req.RequireString("old_tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newTag, err := req.RequireString("new_tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	preview := req.GetBool("preview", false)

	report, err := s.svc.RenameTag(ctx, rename.Request{
		OldTag:             oldTag,
		NewTag:             newTag,
		Preview:            preview,
		IncludeInline:      true,
		IncludeFrontmatter: true,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) findSimilarTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	threshold := req.GetFloat("threshold", 0)

	matches, err := s.svc.SimilarTags(ctx, tag, threshold)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText("no similar tags found"), nil
	}
	out, _ := json.MarshalIndent(matches, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listTaxonomy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	overview, err := s.svc.Taxonomy(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(overview, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no results"), nil
	}
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s\t%s\n", r.Path, r.Title)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.svc.ReadNote(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) getTagContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(TagFormatContract), nil
}

func (s *Server) readTagFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "eihwaz://tag-format",
			MIMEType: "text/markdown",
			Text:     TagFormatContract,
		},
	}, nil
}
