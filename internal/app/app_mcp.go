package app

import (
	"context"

	mcpserver "mural/internal/mcp"
)

// ServeMCP runs the MCP server on stdin/stdout until the client disconnects.
// The document watcher runs alongside so edits made by the desktop app are
// visible to the agent.
func (a *App) ServeMCP(ctx context.Context) error {
	srv := a.newMCPServer()

	if err := a.watcher.Start(ctx); err != nil {
		a.log.WithError(err).Warn("document watcher disabled")
	}
	return srv.ServeStdio()
}

// newMCPServer builds the server and subscribes it to session events so
// clients hear about every change to mural://document.
func (a *App) newMCPServer() *mcpserver.Server {
	srv := mcpserver.New(mcpserver.Deps{
		Pages:   a.session,
		History: a,
		Logger:  a.log,
		Version: Version,
	})
	a.events.Subscribe(srv)
	return srv
}
