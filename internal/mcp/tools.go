package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listDocumentsTool defines the list_documents MCP tool.
var listDocumentsTool = mcp.NewTool("list_documents",
	mcp.WithDescription("List the documents pagenav serves with their slug, title and number of sections."),
)

// getOutlineTool defines the get_outline MCP tool.
var getOutlineTool = mcp.NewTool("get_outline",
	mcp.WithDescription("Get the navigation outline of a document: its sections in order with their menu labels."),
	mcp.WithString("slug",
		mcp.Required(),
		mcp.Description("Document slug as returned by list_documents"),
	),
)

// listSessionsTool defines the list_sessions MCP tool.
var listSessionsTool = mcp.NewTool("list_sessions",
	mcp.WithDescription("List the open reading sessions with the section each reader is currently on."),
	mcp.WithString("slug",
		mcp.Description("Only list sessions reading this document"),
	),
)

// navigateToSectionTool defines the navigate_to_section MCP tool.
var navigateToSectionTool = mcp.NewTool("navigate_to_section",
	mcp.WithDescription("Scroll a reader's page to a section, exactly as if the reader clicked its menu entry."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session id as returned by list_sessions"),
	),
	mcp.WithString("section_id",
		mcp.Required(),
		mcp.Description("Section id as returned by get_outline"),
	),
)
