package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "kidkazz-storefront"
	serverVersion = "1.0.0"
)

// NewServer returns an MCP server exposing the catalog tools.
func NewServer(catalogName string) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)

	registerTools(s, catalogName)
	return s
}

// Serve starts the MCP stdio server with all tools registered.
func Serve(catalogName string) error {
	return server.ServeStdio(NewServer(catalogName))
}
