// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the note graph and report renderer via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/zettel/internal/apperr"
	"github.com/starford/zettel/internal/noteservice"
)

// TemplateSyntaxURI is the resource documenting the report template language.
const TemplateSyntaxURI = "zettel://template-syntax"

// Server wraps the MCP server with the note tools.
type Server struct {
	mcp          *server.MCPServer
	svc          *noteservice.Service
	templatePath string
}

// New creates a new MCP server with all tools registered. templatePath is
// the report template used when render_report gets no inline template.
func New(svc *noteservice.Service, templatePath string) *Server {
	s := &Server{svc: svc, templatePath: templatePath}

	s.mcp = server.NewMCPServer(
		"Zettel",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("render_report",
		mcp.WithDescription("Render the report template against the current notes. "+
			"Pass an inline template to preview changes; read "+TemplateSyntaxURI+" for the syntax."),
		mcp.WithString("template", mcp.Description("Optional inline template (defaults to the configured template file)")),
	), s.renderReport)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List every note with its id, title and display link."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("get_note",
		mcp.WithDescription("Get a note's extracted facts (links, tags, contexts, tasks, properties) and backlinks."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id or wiki name (filename without extension)")),
	), s.getNote)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all notes that link to the specified note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id or wiki name")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("list_orphans",
		mcp.WithDescription("List notes that link to ids no note carries."),
	), s.listOrphans)

	s.mcp.AddTool(mcp.NewTool("get_category",
		mcp.WithDescription("Get the grouping keys and formatted report section of one category."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Category name"),
			mcp.Enum("Links", "Tags", "Contexts", "Tasks", "Orphans", "Properties")),
	), s.getCategory)

	s.mcp.AddResource(
		mcp.NewResource(TemplateSyntaxURI, "Report Template Syntax",
			mcp.WithResourceDescription("Sections, substitutions and the escape, filter and sort directives."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTemplateSyntax,
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

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func errorResult(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %v", err))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) renderReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		rep *noteservice.Report
		err error
	)
	if tmpl := req.GetString("template", ""); strings.TrimSpace(tmpl) != "" {
		rep, err = s.svc.Render(ctx, tmpl)
	} else {
		rep, err = s.svc.RenderFile(ctx, s.templatePath)
	}
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(rep.Content), nil
}

func (s *Server) listNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListNotes(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	lines := make([]string, len(items))
	for i, n := range items {
		lines[i] = n.Link + " " + n.Filename
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetNote(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(detail)
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.svc.Backlinks(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) listOrphans(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.Orphans(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("no orphaned links"), nil
	}
	return jsonResult(items)
}

func (s *Server) getCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := s.svc.Category(ctx, name)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(c)
}

func (s *Server) readTemplateSyntax(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      TemplateSyntaxURI,
			MIMEType: "text/markdown",
			Text:     TemplateSyntax,
		},
	}, nil
}
