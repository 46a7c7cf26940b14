package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// pageWatcher polls the database for changes made by other processes (the
// standalone MCP server) and reloads or notifies the frontend.
type pageWatcher struct {
	ctx      context.Context
	app      *App
	interval time.Duration
	mu       sync.Mutex
	// Open page tracking
	pageID    string
	lastDrawn string // page updated_at fingerprint
	// Sidebar tracking
	lastPageList string // live pages fingerprint (count + max updated_at)
	lastTrash    string // trashed pages fingerprint
	stopCh       chan struct{}
	// Track emitted approval IDs to avoid re-emission
	emittedApprovals map[string]bool
}

func newPageWatcher(ctx context.Context, app *App, interval time.Duration) *pageWatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &pageWatcher{ctx: ctx, app: app, interval: interval, emittedApprovals: map[string]bool{}}
}

// SetPage updates the watched page ID. Called when the user opens a page.
func (w *pageWatcher) SetPage(pageID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pageID = pageID
	w.lastDrawn = ""
}

// Start begins the polling loop. Should be called once on app startup.
func (w *pageWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.pollLoop(w.stopCh)
}

// Stop terminates the polling loop.
func (w *pageWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *pageWatcher) pollLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-stop:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *pageWatcher) check() {
	w.mu.Lock()
	pageID := w.pageID
	w.mu.Unlock()

	db := w.app.db.Conn()

	// ── Open page updated_at ────────────────────────────
	var pageUpdated, content string
	if pageID != "" {
		err := db.QueryRow(
			`SELECT COALESCE(updated_at, ''), content FROM pages WHERE id = ? AND trashed_at IS NULL`, pageID,
		).Scan(&pageUpdated, &content)
		if err != nil {
			pageUpdated = ""
		}
	}

	// ── Page list and trash (sidebar) ───────────────────
	fingerprint := func(query string) string {
		var count int
		var maxUpdated string
		if err := db.QueryRow(query).Scan(&count, &maxUpdated); err != nil {
			return ""
		}
		return fmt.Sprintf("%d:%s", count, maxUpdated)
	}
	pageList := fingerprint(`SELECT COUNT(*), COALESCE(MAX(updated_at), '') FROM pages WHERE trashed_at IS NULL`)
	trash := fingerprint(`SELECT COUNT(*), COALESCE(MAX(trashed_at), '') FROM pages WHERE trashed_at IS NOT NULL`)

	// ── Compare ─────────────────────────────────────────
	w.mu.Lock()
	if w.pageID != pageID {
		// page switched mid-check
		w.mu.Unlock()
		return
	}
	pageChanged := w.lastDrawn != "" && pageUpdated != "" && w.lastDrawn != pageUpdated
	pagesChanged := w.lastPageList != "" && pageList != "" && w.lastPageList != pageList
	trashChanged := w.lastTrash != "" && trash != "" && w.lastTrash != trash
	if pageUpdated != "" {
		w.lastDrawn = pageUpdated
	}
	if pageList != "" {
		w.lastPageList = pageList
	}
	if trash != "" {
		w.lastTrash = trash
	}
	w.mu.Unlock()

	// ── Apply ───────────────────────────────────────────
	if pageChanged && !w.app.savedRecently(pageID, content) {
		w.app.reloadOpenPage(pageID, content)
	}
	if pagesChanged {
		wailsRuntime.EventsEmit(w.ctx, "pages:changed", nil)
	}
	if trashChanged {
		wailsRuntime.EventsEmit(w.ctx, "trash:changed", nil)
	}

	w.checkApprovals()
}

// checkApprovals forwards pending cross-process approvals to the frontend.
func (w *pageWatcher) checkApprovals() {
	db := w.app.db.Conn()
	rows, err := db.Query(`SELECT id, tool, description, created_at, metadata FROM mcp_approvals WHERE status = 'pending'`)
	if err != nil {
		return
	}
	pending := map[string]bool{}
	for rows.Next() {
		var id, tool, desc, createdAt, metadata string
		if rows.Scan(&id, &tool, &desc, &createdAt, &metadata) != nil {
			continue
		}
		pending[id] = true
		w.mu.Lock()
		alreadySent := w.emittedApprovals[id]
		w.emittedApprovals[id] = true
		w.mu.Unlock()
		if !alreadySent {
			wailsRuntime.EventsEmit(w.ctx, "mcp:approval-required", map[string]string{
				"id":          id,
				"tool":        tool,
				"description": desc,
				"createdAt":   createdAt,
				"metadata":    metadata,
			})
		}
	}
	rows.Close()

	// Forget approvals the MCP process resolved or deleted
	w.mu.Lock()
	for id := range w.emittedApprovals {
		if !pending[id] {
			delete(w.emittedApprovals, id)
			wailsRuntime.EventsEmit(w.ctx, "mcp:approval-dismissed", map[string]string{"id": id})
		}
	}
	w.mu.Unlock()
}
