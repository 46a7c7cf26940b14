package mcpserver

import (
	"context"
	"fmt"

	"ordna/internal/document"
	"ordna/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPageTools() {
	// ── list_pages ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List the pages in the sidebar, in order"),
	), s.handleListPages)

	// ── search_pages ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("search_pages",
		mcp.WithDescription("Find pages whose title contains the query (case-insensitive)"),
		mcp.WithString("query",
			mcp.Description("Text to look for in page titles"),
			mcp.Required(),
		),
	), s.handleSearchPages)

	// ── create_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_page",
		mcp.WithDescription("Create a new page at the end of the page list"),
		mcp.WithString("title",
			mcp.Description("Title of the new page"),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("Initial HTML content: p, h1-h6, blockquote, ul/ol/li, ul.todo-list, hr, table (optional)"),
		),
	), s.handleCreatePage)

	// ── read_page ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("read_page",
		mcp.WithDescription("Read a page as a numbered list of blocks. Block indexes are used by the block tools."),
		mcp.WithString("pageId",
			mcp.Description("ID of the page"),
			mcp.Required(),
		),
	), s.handleReadPage)
}

// pageSummary is the page list entry returned to agents.
type pageSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Icon       string `json:"icon"`
	IsFavorite bool   `json:"isFavorite,omitempty"`
}

func summarize(pages []domain.Page) []pageSummary {
	out := make([]pageSummary, 0, len(pages))
	for _, p := range pages {
		out = append(out, pageSummary{ID: p.ID, Title: p.Title, Icon: p.Icon, IsFavorite: p.IsFavorite})
	}
	return out
}

// blockSummary describes one editable line of a page.
type blockSummary struct {
	Index     int    `json:"index"`
	Kind      string `json:"kind"`
	Text      string `json:"text,omitempty"`
	Indent    int    `json:"indent,omitempty"`
	Completed bool   `json:"completed,omitempty"`
}

type pageOutline struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Icon   string         `json:"icon"`
	Blocks []blockSummary `json:"blocks"`
}

func outline(p *domain.Page, doc *document.Document) pageOutline {
	o := pageOutline{ID: p.ID, Title: p.Title, Icon: p.Icon, Blocks: []blockSummary{}}
	for i, b := range doc.Leaves() {
		o.Blocks = append(o.Blocks, blockSummary{
			Index:     i,
			Kind:      b.Kind.String(),
			Text:      b.Text(),
			Indent:    b.Indent,
			Completed: b.Completed,
		})
	}
	return o
}

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := s.pages.ListPages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return jsonResult(summarize(pages))
}

func (s *Server) handleSearchPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := s.pages.Search(req.GetString("query", ""))
	if err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}
	return jsonResult(summarize(pages))
}

func (s *Server) handleCreatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	page, err := s.pages.CreatePage(ctx, title, req.GetString("content", ""))
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return jsonResult(summarize([]domain.Page{*page})[0])
}

func (s *Server) handleReadPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := requirePageID(req)
	if err != nil {
		return nil, err
	}
	page, doc, err := s.loadPage(pageID)
	if err != nil {
		return nil, err
	}
	return jsonResult(outline(page, doc))
}

func (s *Server) loadPage(pageID string) (*domain.Page, *document.Document, error) {
	page, err := s.pages.GetPage(pageID)
	if err != nil {
		return nil, nil, fmt.Errorf("read page: %w", err)
	}
	doc, err := document.Parse(page.Content, document.WithIndentStep(s.indentStep))
	if err != nil {
		return nil, nil, fmt.Errorf("parse page: %w", err)
	}
	return page, doc, nil
}
