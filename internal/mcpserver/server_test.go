package mcpserver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nselim/graphdesk/internal/graphrag"
)

// mockBackend implements Backend for testing.
type mockBackend struct {
	status *graphrag.StatusResponse
	docs   *graphrag.DocumentList
	answer string
	err    error
}

func (m *mockBackend) Status(_ context.Context) (*graphrag.StatusResponse, error) {
	return m.status, m.err
}

func (m *mockBackend) Documents(_ context.Context) (*graphrag.DocumentList, error) {
	return m.docs, m.err
}

func (m *mockBackend) Query(_ context.Context, question string) (*graphrag.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &graphrag.Answer{Status: "success", Question: question, Answer: m.answer}, nil
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"ask_knowledge_base", askKnowledgeBaseTool, "ask_knowledge_base"},
		{"list_documents", listDocumentsTool, "list_documents"},
		{"backend_status", backendStatusTool, "backend_status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	backend := &mockBackend{}
	srv := NewServer(backend)

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.backend != backend {
		t.Error("backend not set correctly")
	}
}

func TestHandleAskKnowledgeBase(t *testing.T) {
	srv := NewServer(&mockBackend{answer: "Forty-two."})
	ctx := context.Background()

	t.Run("answers", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"question": "what is the answer?"}

		result, err := srv.handleAskKnowledgeBase(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if got := resultText(t, result); got != "Forty-two." {
			t.Errorf("answer = %q", got)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAskKnowledgeBase(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})

	t.Run("backend failure", func(t *testing.T) {
		failSrv := NewServer(&mockBackend{err: errors.New("connection refused")})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"question": "anything"}

		result, err := failSrv.handleAskKnowledgeBase(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error when backend fails")
		}
	})
}

func TestHandleListDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("lists documents", func(t *testing.T) {
		srv := NewServer(&mockBackend{docs: &graphrag.DocumentList{
			Status: "success",
			Documents: []graphrag.Document{
				{Filename: "paper.pdf", Chunks: 12},
				{Filename: "notes.txt", Chunks: 3},
			},
			Total: 2,
		}})

		result, err := srv.handleListDocuments(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "paper.pdf (12 chunks)") {
			t.Errorf("missing document line: %q", text)
		}
	})

	t.Run("empty knowledge base", func(t *testing.T) {
		srv := NewServer(&mockBackend{docs: &graphrag.DocumentList{Status: "success"}})

		result, err := srv.handleListDocuments(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(resultText(t, result), "empty") {
			t.Error("expected empty knowledge base message")
		}
	})
}

func TestHandleBackendStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("ready", func(t *testing.T) {
		srv := NewServer(&mockBackend{status: &graphrag.StatusResponse{
			Status: "ready", DocumentsProcessed: 5,
		}})

		result, err := srv.handleBackendStatus(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(resultText(t, result), "5 documents") {
			t.Errorf("unexpected status text: %q", resultText(t, result))
		}
	})

	t.Run("not initialized", func(t *testing.T) {
		srv := NewServer(&mockBackend{status: &graphrag.StatusResponse{
			Status: "not_initialized",
		}})

		result, err := srv.handleBackendStatus(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(resultText(t, result), "not initialized") {
			t.Errorf("unexpected status text: %q", resultText(t, result))
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := NewServer(&mockBackend{err: errors.New("dial tcp: refused")})

		result, err := srv.handleBackendStatus(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error for unreachable backend")
		}
	})
}
