package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// handleAskKnowledgeBase forwards a question to the backend query endpoint.
func (s *Server) handleAskKnowledgeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	answer, err := s.backend.Query(ctx, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	return mcp.NewToolResultText(answer.Answer), nil
}

// handleListDocuments returns the knowledge base contents.
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.backend.Documents(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing documents failed: %v", err)), nil
	}

	if list.Total == 0 {
		return mcp.NewToolResultText("The knowledge base is empty. Upload documents with `graphdesk upload` first."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d documents in the knowledge base:\n\n", list.Total)
	for _, doc := range list.Documents {
		fmt.Fprintf(&b, "- %s (%d chunks)\n", doc.Filename, doc.Chunks)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleBackendStatus reports backend readiness.
func (s *Server) handleBackendStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.backend.Status(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("backend unreachable: %v", err)), nil
	}

	if !status.Ready() {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Backend is not initialized (%s). Run `graphdesk init-backend` or upload a document.",
			status.Status,
		)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Backend is ready with %d documents processed.",
		status.DocumentsProcessed,
	)), nil
}
