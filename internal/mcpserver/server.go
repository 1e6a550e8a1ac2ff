// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the portfolio data and sync pipeline to LLM clients via
// stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/api"
	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/meta"
)

// Server wraps the MCP server with portfolio tools.
type Server struct {
	mcp     *server.MCPServer
	svc     *api.Service
	profile meta.Profile
}

// New creates a new MCP server with all portfolio tools registered.
func New(svc *api.Service, profile meta.Profile) *Server {
	s := &Server{svc: svc, profile: profile}

	s.mcp = server.NewMCPServer(
		"Folio",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List published portfolio projects, optionally filtered by category "+
			"(Narrative, Commercial, Music Video, Documentary)."),
		mcp.WithString("category", mcp.Description("Optional category filter")),
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("get_project",
		mcp.WithDescription("Read the full record of one project by slug or record id."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Project slug (e.g. midnight-harvest) or record id")),
	), s.getProject)

	s.mcp.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List published journal posts with excerpts and reading times."),
	), s.listPosts)

	s.mcp.AddTool(mcp.NewTool("run_sync",
		mcp.WithDescription("Run a sync cycle against the CMS and rewrite the JSON artifacts. "+
			"Incremental mode refetches only records whose last-modified stamp changed."),
		mcp.WithString("mode", mcp.Description("\"full\" (default) or \"incremental\"")),
	), s.runSync)

	s.mcp.AddTool(mcp.NewTool("preview_share_meta",
		mcp.WithDescription("Render the social share meta block (OpenGraph, Twitter card, JSON-LD) "+
			"that the edge rewriter would inject for a site path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Site path, e.g. /work/midnight-harvest")),
	), s.previewShareMeta)

	// Resource: current portfolio data artifact.
	s.mcp.AddResource(
		mcp.NewResource("folio://portfolio-data", "Portfolio Data",
			mcp.WithResourceDescription("Current published portfolio data (projects, posts, site config)."),
			mcp.WithMIMEType("application/json"),
		),
		s.readDataResource,
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

func (s *Server) listProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.svc.Data(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	category := ""
	if c, err := req.RequireString("category"); err == nil {
		category = c
	}

	type row struct {
		Slug     string `json:"slug"`
		Title    string `json:"title"`
		Category string `json:"category"`
		Date     string `json:"releaseDate,omitempty"`
	}
	var rows []row
	for _, p := range data.Projects {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		rows = append(rows, row{Slug: p.Slug, Title: p.Title, Category: p.Category, Date: p.ReleaseDate})
	}

	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.svc.Project(ctx, slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(p, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.svc.Data(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type row struct {
		Slug        string `json:"slug"`
		Title       string `json:"title"`
		Date        string `json:"date,omitempty"`
		ReadingTime string `json:"readingTime"`
		Excerpt     string `json:"excerpt,omitempty"`
	}
	var rows []row
	for _, p := range data.Posts {
		rows = append(rows, row{Slug: p.Slug, Title: p.Title, Date: p.PublishDate, ReadingTime: p.ReadingTime, Excerpt: p.Excerpt})
	}

	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) runSync(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := "full"
	if m, err := req.RequireString("mode"); err == nil && m != "" {
		mode = m
	}
	if mode != "full" && mode != "incremental" {
		return mcp.NewToolResultError(fmt.Sprintf("unknown mode: %s", mode)), nil
	}

	result, err := s.svc.TriggerSync(ctx, mode == "incremental")
	if err != nil {
		if errors.Is(err, apperr.ErrRateLimited) {
			return mcp.NewToolResultError("upstream rate limited; retry later"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) previewShareMeta(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := s.svc.Data(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	kind, slug := meta.ClassifyPath(path)
	pm := meta.BuildPageMeta(kind, slug, data, s.profile, nil)
	return mcp.NewToolResultText(meta.RenderMetaBlock(pm, s.profile.SiteName)), nil
}

func (s *Server) readDataResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := s.svc.Data(ctx)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "folio://portfolio-data",
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}
