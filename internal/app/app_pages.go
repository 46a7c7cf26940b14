package app

// ─────────────────────────────────────────────────────────────
// Page + Trash Handlers: thin delegates to the services
// ─────────────────────────────────────────────────────────────

import (
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"ordna/internal/domain"
	"ordna/internal/editor"
	"ordna/internal/service"
)

// ── Pages ──────────────────────────────────────────────────

// OpenLastPage opens the page that was open at shutdown, falling back to
// the first page. A welcome page is created on first run.
func (a *App) OpenLastPage() (*PageView, error) {
	if id := a.settings.LastPageID(); id != "" {
		if p, err := a.pages.GetPage(id); err == nil && !p.InTrash() {
			return a.OpenPage(id)
		}
	}
	first, err := a.pages.EnsureWelcomePage(a.ctx)
	if err != nil {
		return nil, err
	}
	return a.OpenPage(first.ID)
}

// OpenPage saves the open page and loads another into the editor.
func (a *App) OpenPage(id string) (*PageView, error) {
	a.editMu.Lock()
	defer a.editMu.Unlock()
	return a.openPage(id)
}

// openPage switches the editor to page id. The document is replaced before
// the open page id changes, and callers hold editMu so no editor event
// runs in between.
func (a *App) openPage(id string) (*PageView, error) {
	page, err := a.pages.GetPage(id)
	if err != nil {
		return nil, err
	}
	a.flushOpenPage()

	if err := a.session.Load(page.Content); err != nil {
		return nil, err
	}
	a.mu.Lock()
	prev := a.pageID
	a.pageID = page.ID
	a.saves.reset(page.ID, page.Content)
	a.mu.Unlock()

	if err := a.settings.SetLastPageID(page.ID); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "Failed to remember page: %v", err)
	}
	a.watcher.SetPage(page.ID)
	if a.mirror != nil {
		if prev != "" && prev != page.ID {
			a.mirror.Forget(prev)
		}
		if err := a.mirror.Write(page.ID, page.Content); err != nil {
			wailsRuntime.LogErrorf(a.ctx, "Failed to mirror page %s: %v", page.ID, err)
		}
	}
	return a.pageView(page.ID)
}

func (a *App) pageView(id string) (*PageView, error) {
	state, err := a.pages.PageState(id)
	if err != nil {
		return nil, err
	}
	return &PageView{State: state, Frame: a.session.Frame()}, nil
}

func (a *App) ListPages() ([]domain.Page, error) {
	return a.pages.ListPages()
}

func (a *App) SearchPages(term string) ([]domain.Page, error) {
	return a.pages.Search(term)
}

// CreatePage adds an untitled page and opens it.
func (a *App) CreatePage() (*PageView, error) {
	p, err := a.pages.CreatePage(a.ctx, "", "")
	if err != nil {
		return nil, err
	}
	return a.OpenPage(p.ID)
}

func (a *App) RenamePage(id, title string) (*domain.Page, error) {
	return a.pages.RenamePage(a.ctx, id, title)
}

func (a *App) SetPageIcon(id, icon string) (*domain.Page, error) {
	return a.pages.SetIcon(a.ctx, id, icon)
}

func (a *App) PageIcons() []string {
	return service.PageIcons
}

func (a *App) ToggleFavorite(id string) (*domain.Page, error) {
	return a.pages.ToggleFavorite(a.ctx, id)
}

// DuplicatePage copies a page and opens the copy.
func (a *App) DuplicatePage(id string) (*PageView, error) {
	a.editMu.Lock()
	defer a.editMu.Unlock()
	if a.isOpen(id) {
		a.flushOpenPage()
	}
	p, err := a.pages.DuplicatePage(a.ctx, id)
	if err != nil {
		return nil, err
	}
	return a.openPage(p.ID)
}

// ── Trash ──────────────────────────────────────────────────

// MoveToTrash trashes a page. When it was the open page, the page that took
// its place is opened.
func (a *App) MoveToTrash(id string) (*PageView, error) {
	a.editMu.Lock()
	defer a.editMu.Unlock()
	open := a.isOpen(id)
	if open {
		a.flushOpenPage()
	}
	next, err := a.trash.MoveToTrash(a.ctx, id)
	if err != nil {
		return nil, err
	}
	if a.mirror != nil {
		a.mirror.Remove(id)
	}
	if open {
		return a.openPage(next.ID)
	}
	return a.pageView(a.openPageID())
}

func (a *App) ListTrash() ([]domain.TrashItem, error) {
	return a.trash.List()
}

func (a *App) RestorePage(id string) (*domain.Page, error) {
	return a.trash.Restore(a.ctx, id)
}

func (a *App) DeletePermanently(id string) error {
	return a.trash.DeletePermanently(a.ctx, id)
}

func (a *App) EmptyTrash() (int, error) {
	return a.trash.Empty(a.ctx)
}

func (a *App) TrashCount() (int, error) {
	return a.trash.Count()
}

// PlacePageMenu positions a sidebar context menu next to the control that
// opened it, kept inside the viewport.
func (a *App) PlacePageMenu(button editor.Rect, menu, viewport editor.Size) editor.Position {
	return editor.PlaceMenu(button, menu, viewport)
}

func (a *App) isOpen(id string) bool {
	return a.openPageID() == id
}

func (a *App) openPageID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pageID
}
