package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"mural/internal/service"
)

var _ service.EventEmitter = (*Server)(nil)

// Emit tells subscribed clients that mural://document changed. Events that
// leave the document as it was are not forwarded.
func (s *Server) Emit(ctx context.Context, event string, data any) {
	switch event {
	case service.EventPagesChanged, service.EventExternalChange, service.EventSnapshotRestored:
		s.mcp.SendNotificationToAllClients(mcp.MethodNotificationResourceUpdated, map[string]any{
			"uri": documentURI,
		})
		s.log.Debugw("notified clients", "event", event)
	}
}
