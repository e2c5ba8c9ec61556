package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// askKnowledgeBaseTool defines the ask_knowledge_base MCP tool.
var askKnowledgeBaseTool = mcp.NewTool("ask_knowledge_base",
	mcp.WithDescription("Ask a question about the uploaded documents. The answer is grounded in the knowledge graph built from them."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language question"),
	),
)

// listDocumentsTool defines the list_documents MCP tool.
var listDocumentsTool = mcp.NewTool("list_documents",
	mcp.WithDescription("List the documents currently in the knowledge base, with chunk counts."),
)

// backendStatusTool defines the backend_status MCP tool.
var backendStatusTool = mcp.NewTool("backend_status",
	mcp.WithDescription("Report whether the GraphRAG backend is initialized and how many documents it has processed."),
)
