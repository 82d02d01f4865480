package mcp

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/pagenav/internal/library"
	"github.com/ziadkadry99/pagenav/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Documents is the part of the library the tools read.
type Documents interface {
	List() []library.Summary
	Get(slug string) (*library.Entry, bool)
}

// Sessions is the part of the session hub the tools drive.
type Sessions interface {
	List() []session.Snapshot
	Navigate(ctx context.Context, id, section string) error
}

// Server wraps an MCP server that exposes the documents and, when served
// next to the pages, the live reading sessions.
type Server struct {
	docs     Documents
	sessions Sessions
	mcp      *server.MCPServer
}

// NewServer creates an MCP server. sessions may be nil, in which case
// only the document tools are offered.
func NewServer(docs Documents, sessions Sessions) *Server {
	s := &Server{
		docs:     docs,
		sessions: sessions,
	}

	s.mcp = server.NewMCPServer(
		"pagenav",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listDocumentsTool, s.handleListDocuments)
	s.mcp.AddTool(getOutlineTool, s.handleGetOutline)
	if s.sessions != nil {
		s.mcp.AddTool(listSessionsTool, s.handleListSessions)
		s.mcp.AddTool(navigateToSectionTool, s.handleNavigateToSection)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

// Handler returns the streamable HTTP transport for mounting at /mcp.
func (s *Server) Handler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}
