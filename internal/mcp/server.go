package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mural/internal/domain"
	"mural/internal/logger"
	"mural/internal/storage"
)

// Pages is the page/note surface the tools drive. *app.Session implements it.
type Pages interface {
	Pages() domain.Collection
	Page(id string) (domain.Page, bool)
	AddPage(ctx context.Context, title string) (domain.Page, error)
	DeletePage(ctx context.Context, pageID string) (domain.Collection, error)
	AddNote(ctx context.Context, pageID, title, content string) (*domain.Note, error)
	DeleteNote(ctx context.Context, pageID, noteID string) (domain.Collection, error)
	ToggleMinimizeNote(ctx context.Context, pageID, noteID string) (domain.Collection, error)
	ToggleMaximizeNote(ctx context.Context, pageID, noteID string) (domain.Collection, error)
}

// History is the snapshot archive surface. *app.App implements it.
type History interface {
	ListSnapshots() ([]storage.Snapshot, error)
	TakeSnapshot(ctx context.Context, label string) (*storage.Snapshot, error)
	RestoreSnapshot(ctx context.Context, id string) (domain.Collection, error)
}

// Server is the MCP server for mural.
// It exposes the page and note operations so agents can arrange the board.
type Server struct {
	mcp     *server.MCPServer
	pages   Pages
	history History
	log     *logger.Logger
}

// Deps holds everything the App layer passes to the MCP server.
type Deps struct {
	Pages   Pages
	History History
	Logger  *logger.Logger
	Version string
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		pages:   deps.Pages,
		history: deps.History,
		log:     deps.Logger.WithComponent("mcp"),
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}

	s.mcp = server.NewMCPServer(
		"mural-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerPageTools()
	s.registerNoteTools()
	if s.history != nil {
		s.registerHistoryTools()
	}
	s.registerResources()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("starting stdio server")
	return server.ServeStdio(s.mcp)
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// requireString returns a non-empty string argument or an error naming it.
func requireString(req mcp.CallToolRequest, name string) (string, error) {
	v := req.GetString(name, "")
	if v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}
