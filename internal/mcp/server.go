package mcpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"ordna/internal/document"
	"ordna/internal/editor"
	"ordna/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for Ordna.
// It exposes tools, resources, and prompts so AI agents can read and edit pages.
type Server struct {
	mcp      *server.MCPServer
	emitter  EventEmitter
	approval *ApprovalQueue

	// Services (injected from app layer)
	pages *service.PageService
	trash *service.TrashService

	transformer editor.Transformer
	formatter   editor.Formatter
	indentStep  int

	// Serializes read-modify-write of page content
	editMu sync.Mutex
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter              EventEmitter
	Pages                *service.PageService
	Trash                *service.TrashService
	IndentStep           int
	PreserveInlineStyles bool
	ApprovalDB           *sql.DB // When set, use SQLite-based approval (standalone mode)
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	approval := NewApprovalQueue(ctx, deps.Emitter)
	if deps.ApprovalDB != nil {
		approval.SetDB(deps.ApprovalDB)
	}
	if deps.IndentStep <= 0 {
		deps.IndentStep = document.DefaultIndentStep
	}
	s := &Server{
		emitter:     deps.Emitter,
		approval:    approval,
		pages:       deps.Pages,
		trash:       deps.Trash,
		transformer: editor.Transformer{PreserveInlineStyles: deps.PreserveInlineStyles},
		indentStep:  deps.IndentStep,
	}

	s.mcp = server.NewMCPServer(
		"ordna-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerPageTools()
	s.registerBlockTools()
	s.registerTrashTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) {
	s.approval.Approve(actionID)
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) {
	s.approval.Reject(actionID)
}

// ── Helpers ────────────────────────────────────────────────

// emitPageChanged notifies the frontend that an agent rewrote a page.
func (s *Server) emitPageChanged(ctx context.Context, pageID string) {
	s.emitter.Emit(ctx, "mcp:page-changed", map[string]string{"pageId": pageID})
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(v bool) *bool { return &v }

// requirePageID reads the pageId argument.
func requirePageID(req mcp.CallToolRequest) (string, error) {
	id := req.GetString("pageId", "")
	if id == "" {
		return "", fmt.Errorf("pageId is required")
	}
	return id, nil
}
