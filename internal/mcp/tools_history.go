package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerHistoryTools() {
	s.mcp.AddTool(mcp.NewTool("list_snapshots",
		mcp.WithDescription("List archived copies of the whole board, newest first"),
	), s.handleListSnapshots)

	s.mcp.AddTool(mcp.NewTool("take_snapshot",
		mcp.WithDescription("Archive the board as it is now"),
		mcp.WithString("label", mcp.Description("Optional label")),
	), s.handleTakeSnapshot)

	s.mcp.AddTool(mcp.NewTool("restore_snapshot",
		mcp.WithDescription("Replace the whole board with an archived snapshot"),
		mcp.WithString("snapshotId",
			mcp.Description("ID of the snapshot to restore"),
			mcp.Required(),
		),
	), s.handleRestoreSnapshot)
}

func (s *Server) handleListSnapshots(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snaps, err := s.history.ListSnapshots()
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return jsonResult(snaps)
}

func (s *Server) handleTakeSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.history.TakeSnapshot(ctx, req.GetString("label", "mcp"))
	if err != nil {
		return nil, fmt.Errorf("take snapshot: %w", err)
	}
	return jsonResult(snap)
}

func (s *Server) handleRestoreSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "snapshotId")
	if err != nil {
		return nil, err
	}
	pages, err := s.history.RestoreSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	return textResult(fmt.Sprintf("Restored snapshot %s (%d pages)", id, len(pages))), nil
}
