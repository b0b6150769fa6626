package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPageTools() {
	// ── list_pages ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List all pages with their notes, in display order"),
	), s.handleListPages)

	// ── get_page ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_page",
		mcp.WithDescription("Get one page and its notes"),
		mcp.WithString("pageId",
			mcp.Description("ID of the page"),
			mcp.Required(),
		),
	), s.handleGetPage)

	// ── add_page ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_page",
		mcp.WithDescription("Create a new empty page. It is placed first in the page list."),
		mcp.WithString("title",
			mcp.Description("Title of the new page"),
			mcp.Required(),
		),
	), s.handleAddPage)

	// ── delete_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_page",
		mcp.WithDescription("Delete a page and all of its notes"),
		mcp.WithString("pageId",
			mcp.Description("ID of the page to delete"),
			mcp.Required(),
		),
	), s.handleDeletePage)
}

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.pages.Pages())
}

func (s *Server) handleGetPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := requireString(req, "pageId")
	if err != nil {
		return nil, err
	}
	page, ok := s.pages.Page(pageID)
	if !ok {
		return nil, fmt.Errorf("page %s not found", pageID)
	}
	return jsonResult(page)
}

func (s *Server) handleAddPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := requireString(req, "title")
	if err != nil {
		return nil, err
	}
	page, err := s.pages.AddPage(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("add page: %w", err)
	}
	return jsonResult(page)
}

func (s *Server) handleDeletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := requireString(req, "pageId")
	if err != nil {
		return nil, err
	}
	before := len(s.pages.Pages())
	pages, err := s.pages.DeletePage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("delete page: %w", err)
	}
	if len(pages) == before {
		return textResult(fmt.Sprintf("No page with id %s; nothing deleted", pageID)), nil
	}
	return textResult(fmt.Sprintf("Deleted page %s", pageID)), nil
}
