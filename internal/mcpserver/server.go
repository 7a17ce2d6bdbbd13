// Package mcpserver exposes the todo operations as MCP tools.
//
// Tools share the service with the HTTP API, so ids, validation and error
// messages behave the same on both surfaces.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/Makepad-fr/tada/internal/todos"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with every todo tool registered.
func New(svc *todos.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"tada",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions("Manage a list of todos. Each todo has a caller-chosen integer id and a text."),
	)

	t := NewTools(svc)
	s.AddTool(t.CreateDefinition(), t.HandleCreate)
	s.AddTool(t.ListDefinition(), t.HandleList)
	s.AddTool(t.GetDefinition(), t.HandleGet)
	s.AddTool(t.UpdateDefinition(), t.HandleUpdate)
	s.AddTool(t.DeleteDefinition(), t.HandleDelete)
	return s
}

// ServeStdio runs the server on stdin/stdout until the client disconnects.
func ServeStdio(svc *todos.Service) error {
	return server.ServeStdio(New(svc))
}
