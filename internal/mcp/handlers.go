package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/pagenav/internal/session"
)

// handleListDocuments lists every document of the library.
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs := s.docs.List()
	if len(docs) == 0 {
		return mcp.NewToolResultText("No documents found. Add markdown files to the docs directory."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d documents:\n\n", len(docs))
	for _, d := range docs {
		fmt.Fprintf(&b, "- %s: %q (%s, %d sections)\n", d.Slug, d.Title, d.Path, d.Sections)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleGetOutline returns the outline of one document.
func (s *Server) handleGetOutline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := request.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: slug"), nil
	}

	e, ok := s.docs.Get(slug)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("No document %q. Use list_documents to see the available slugs.", slug)), nil
	}

	entries := e.Registry.Current().Entries()
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("%q has no sections, so its page has no menu.", e.Doc.Title)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", e.Doc.Title)
	for i, entry := range entries {
		fmt.Fprintf(&b, "%d. %s (id: %s)\n", i+1, entry.Label, entry.ID)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleListSessions returns the live sessions as JSON.
func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug := request.GetString("slug", "")

	snaps := []session.Snapshot{}
	for _, snap := range s.sessions.List() {
		if slug == "" || snap.Document == slug {
			snaps = append(snaps, snap)
		}
	}
	if len(snaps) == 0 {
		return mcp.NewToolResultText("No open sessions."), nil
	}

	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding sessions: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleNavigateToSection scrolls a reader's page to a section.
func (s *Server) handleNavigateToSection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}
	section, err := request.RequireString("section_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: section_id"), nil
	}

	err = s.sessions.Navigate(ctx, id, section)
	switch {
	case err == nil:
		return mcp.NewToolResultText(fmt.Sprintf("Scrolling session %s to %q.", id, section)), nil
	case errors.Is(err, session.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("No open session %q. Use list_sessions to see the open sessions.", id)), nil
	case errors.Is(err, session.ErrUnknownSection):
		return mcp.NewToolResultError(fmt.Sprintf("The session's document has no section %q. Use get_outline to see its sections.", section)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("navigation failed: %v", err)), nil
	}
}
