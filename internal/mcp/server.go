package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/intentlang/internal/catalog"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the language catalog.
type Server struct {
	store   *catalog.Store
	intents catalog.IntentLookup
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server reading from store. intents resolves
// schemas for tokenize_example.
func NewServer(store *catalog.Store, intents catalog.IntentLookup) *Server {
	s := &Server{
		store:   store,
		intents: intents,
	}

	s.mcp = server.NewMCPServer(
		"intentlang",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listIntentsTool, s.handleListIntents)
	s.mcp.AddTool(getIntentLanguageTool, s.handleGetIntentLanguage)
	s.mcp.AddTool(getEntityTool, s.handleGetEntity)
	s.mcp.AddTool(tokenizeExampleTool, s.handleTokenizeExample)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
