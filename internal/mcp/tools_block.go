package mcpserver

import (
	"context"
	"fmt"

	"ordna/internal/document"
	"ordna/internal/editor"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerBlockTools() {
	// ── set_block_kind ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_block_kind",
		mcp.WithDescription("Apply a block menu action to a block: change its kind, wrap it in a list, or change its indent"),
		mcp.WithString("pageId", mcp.Description("Page ID"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Block index from read_page"), mcp.Required()),
		mcp.WithString("action",
			mcp.Description("One of: indent, outdent, h1, h2, h3, h4, paragraph, ul, ol, todo, quote, divider, table"),
			mcp.Required(),
		),
	), s.handleSetBlockKind)

	// ── toggle_todo ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("toggle_todo",
		mcp.WithDescription("Mark a to-do item done, or open again"),
		mcp.WithString("pageId", mcp.Description("Page ID"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Block index of the to-do item"), mcp.Required()),
	), s.handleToggleTodo)

	// ── format_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("format_block",
		mcp.WithDescription("Toggle an inline style over a character range of a block. The style is removed when the whole range already has it."),
		mcp.WithString("pageId", mcp.Description("Page ID"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Block index from read_page"), mcp.Required()),
		mcp.WithString("style",
			mcp.Description("bold, italic, underline or strikethrough"),
			mcp.Required(),
		),
		mcp.WithNumber("from", mcp.Description("First character, counted in code points (default 0)")),
		mcp.WithNumber("to", mcp.Description("End character, exclusive (default: end of block)")),
	), s.handleFormatBlock)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleSetBlockKind(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, ok := editor.ParseAction(req.GetString("action", ""))
	if !ok {
		return nil, fmt.Errorf("unknown action %q", req.GetString("action", ""))
	}
	return s.editBlock(ctx, req, func(doc *document.Document, b *document.Block) bool {
		_, changed := s.transformer.Apply(doc, b, action)
		return changed
	})
}

func (s *Server) handleToggleTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.editBlock(ctx, req, func(doc *document.Document, b *document.Block) bool {
		return s.transformer.ToggleTodo(doc, b)
	})
}

func (s *Server) handleFormatBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	style, ok := document.ParseStyle(req.GetString("style", ""))
	if !ok {
		return nil, fmt.Errorf("unknown style %q", req.GetString("style", ""))
	}
	return s.editBlock(ctx, req, func(doc *document.Document, b *document.Block) bool {
		from := clamp(req.GetInt("from", 0), 0, b.Len())
		to := clamp(req.GetInt("to", b.Len()), from, b.Len())
		r := editor.Range{
			Start: document.Point{Block: b, Offset: from},
			End:   document.Point{Block: b, Offset: to},
		}
		return s.formatter.Toggle(doc, r, style)
	})
}

// editBlock runs fn on the indexed block and saves the page when fn reports
// a change. The result is the page outline either way.
func (s *Server) editBlock(ctx context.Context, req mcp.CallToolRequest, fn func(doc *document.Document, b *document.Block) bool) (*mcp.CallToolResult, error) {
	pageID, err := requirePageID(req)
	if err != nil {
		return nil, err
	}

	s.editMu.Lock()
	defer s.editMu.Unlock()

	page, doc, err := s.loadPage(pageID)
	if err != nil {
		return nil, err
	}
	leaves := doc.Leaves()
	index := req.GetInt("index", -1)
	if index < 0 || index >= len(leaves) {
		return nil, fmt.Errorf("block index %d out of range (page has %d blocks)", index, len(leaves))
	}
	if !fn(doc, leaves[index]) {
		return jsonResult(outline(page, doc))
	}

	if err := s.pages.UpdateContent(ctx, pageID, document.Serialize(doc)); err != nil {
		return nil, err
	}
	s.emitPageChanged(ctx, pageID)
	return jsonResult(outline(page, doc))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
