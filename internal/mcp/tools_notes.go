package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"mural/internal/domain"
)

func (s *Server) registerNoteTools() {
	// ── add_note ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_note",
		mcp.WithDescription("Add a sticky note to a page. New notes start at (100,100), 200x150."),
		mcp.WithString("pageId",
			mcp.Description("ID of the page"),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("Note title"),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("Note body"),
		),
	), s.handleAddNote)

	// ── delete_note ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note from a page"),
		mcp.WithString("pageId", mcp.Description("ID of the page"), mcp.Required()),
		mcp.WithString("noteId", mcp.Description("ID of the note"), mcp.Required()),
	), s.handleDeleteNote)

	// ── toggle_minimize_note ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("toggle_minimize_note",
		mcp.WithDescription("Flip a note's minimized flag"),
		mcp.WithString("pageId", mcp.Description("ID of the page"), mcp.Required()),
		mcp.WithString("noteId", mcp.Description("ID of the note"), mcp.Required()),
	), s.handleToggleMinimize)

	// ── toggle_maximize_note ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("toggle_maximize_note",
		mcp.WithDescription("Flip a note's maximized flag"),
		mcp.WithString("pageId", mcp.Description("ID of the page"), mcp.Required()),
		mcp.WithString("noteId", mcp.Description("ID of the note"), mcp.Required()),
	), s.handleToggleMaximize)
}

func (s *Server) handleAddNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := requireString(req, "pageId")
	if err != nil {
		return nil, err
	}
	title, err := requireString(req, "title")
	if err != nil {
		return nil, err
	}
	note, err := s.pages.AddNote(ctx, pageID, title, req.GetString("content", ""))
	if err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	if note == nil {
		return textResult(fmt.Sprintf("No page with id %s; note not added", pageID)), nil
	}
	return jsonResult(note)
}

func (s *Server) handleDeleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.noteMutation(ctx, req, "delete note", s.pages.DeleteNote)
}

func (s *Server) handleToggleMinimize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.noteMutation(ctx, req, "toggle minimize", s.pages.ToggleMinimizeNote)
}

func (s *Server) handleToggleMaximize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.noteMutation(ctx, req, "toggle maximize", s.pages.ToggleMaximizeNote)
}

type noteOp func(ctx context.Context, pageID, noteID string) (domain.Collection, error)

// noteMutation runs op and answers with the page as it is afterwards.
func (s *Server) noteMutation(ctx context.Context, req mcp.CallToolRequest, what string, op noteOp) (*mcp.CallToolResult, error) {
	pageID, err := requireString(req, "pageId")
	if err != nil {
		return nil, err
	}
	noteID, err := requireString(req, "noteId")
	if err != nil {
		return nil, err
	}
	pages, err := op(ctx, pageID, noteID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	page := pages.FindPage(pageID)
	if page == nil {
		return textResult(fmt.Sprintf("No page with id %s; nothing changed", pageID)), nil
	}
	return jsonResult(page)
}
