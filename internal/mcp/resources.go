package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"mural/internal/storage"
)

const documentURI = "mural://document"

func (s *Server) registerResources() {
	// ── mural://document ───────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		documentURI,
		"Board document",
		mcp.WithResourceDescription("The whole collection of pages exactly as it is persisted"),
		mcp.WithMIMEType("application/json"),
	), s.handleDocumentResource)
}

func (s *Server) handleDocumentResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := storage.Encode(s.pages.Pages())
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      documentURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
