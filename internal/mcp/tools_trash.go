package mcpserver

import (
	"context"
	"fmt"

	"ordna/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTrashTools() {
	// ── move_page_to_trash (destructive) ───────────────
	s.mcp.AddTool(mcp.NewTool("move_page_to_trash",
		mcp.WithDescription("🛑 DESTRUCTIVE: Move a page to the trash. Requires user approval. The last page cannot be trashed."),
		mcp.WithString("pageId", mcp.Description("ID of the page"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleMoveToTrash)

	// ── restore_page ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("restore_page",
		mcp.WithDescription("Restore a page from the trash to the end of the page list"),
		mcp.WithString("pageId", mcp.Description("ID of the trashed page"), mcp.Required()),
	), s.handleRestorePage)

	// ── list_trash ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_trash",
		mcp.WithDescription("List the pages in the trash, most recently trashed first"),
	), s.handleListTrash)

	// ── empty_trash (destructive) ──────────────────────
	s.mcp.AddTool(mcp.NewTool("empty_trash",
		mcp.WithDescription("🛑 DESTRUCTIVE: Permanently delete every page in the trash. Requires user approval."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleEmptyTrash)
}

func (s *Server) handleMoveToTrash(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := requirePageID(req)
	if err != nil {
		return nil, err
	}
	page, err := s.pages.GetPage(pageID)
	if err != nil {
		return nil, fmt.Errorf("move to trash: %w", err)
	}

	err = s.approval.Request("move_page_to_trash",
		fmt.Sprintf("Move page %q to the trash", truncate(page.Title, 60)),
		map[string][]string{"pageIds": {pageID}})
	if err != nil {
		return textResult("Action rejected by user"), nil
	}

	next, err := s.trash.MoveToTrash(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("move to trash: %w", err)
	}
	s.emitPageChanged(ctx, pageID)
	return textResult(fmt.Sprintf("Moved %q to the trash; %q is shown in its place", page.Title, next.Title)), nil
}

func (s *Server) handleRestorePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := requirePageID(req)
	if err != nil {
		return nil, err
	}
	page, err := s.trash.Restore(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("restore page: %w", err)
	}
	return jsonResult(summarize([]domain.Page{*page})[0])
}

func (s *Server) handleListTrash(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.trash.List()
	if err != nil {
		return nil, fmt.Errorf("list trash: %w", err)
	}
	return jsonResult(items)
}

func (s *Server) handleEmptyTrash(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count, err := s.trash.Count()
	if err != nil {
		return nil, fmt.Errorf("empty trash: %w", err)
	}
	if count == 0 {
		return textResult("The trash is already empty"), nil
	}
	err = s.approval.Request("empty_trash",
		fmt.Sprintf("Permanently delete %d page(s) in the trash", count), nil)
	if err != nil {
		return textResult("Action rejected by user"), nil
	}
	n, err := s.trash.Empty(ctx)
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Deleted %d page(s) permanently", n)), nil
}
