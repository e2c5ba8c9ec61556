// Package mcpserver exposes the knowledge base to MCP clients so editor
// agents can query uploaded documents directly.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/nselim/graphdesk/internal/graphrag"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Backend is the subset of the GraphRAG client the tools need.
type Backend interface {
	Status(ctx context.Context) (*graphrag.StatusResponse, error)
	Documents(ctx context.Context) (*graphrag.DocumentList, error)
	Query(ctx context.Context, question string) (*graphrag.Answer, error)
}

// Server wraps an MCP server exposing knowledge-base tools.
type Server struct {
	backend Backend
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server over the given backend.
func NewServer(backend Backend) *Server {
	s := &Server{backend: backend}

	s.mcp = server.NewMCPServer(
		"graphdesk",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(askKnowledgeBaseTool, s.handleAskKnowledgeBase)
	s.mcp.AddTool(listDocumentsTool, s.handleListDocuments)
	s.mcp.AddTool(backendStatusTool, s.handleBackendStatus)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
