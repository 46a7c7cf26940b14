package app

// ─────────────────────────────────────────────────────────────
// Editor Handlers: surface events in, frames out
// ─────────────────────────────────────────────────────────────

import (
	"ordna/internal/editor"
)

// edit runs one editor event under editMu and returns the resulting frame.
func (a *App) edit(fn func()) editor.Frame {
	a.editMu.Lock()
	defer a.editMu.Unlock()
	fn()
	return a.session.Frame()
}

// EditorInput is called after the user typed into the editing surface.
// Markup typed into a page that is no longer open is dropped.
func (a *App) EditorInput(pageID, html string) (editor.Frame, error) {
	a.editMu.Lock()
	defer a.editMu.Unlock()
	if pageID != a.openPageID() {
		return a.session.Frame(), nil
	}
	if err := a.session.Input(html); err != nil {
		return editor.Frame{}, err
	}
	return a.session.Frame(), nil
}

func (a *App) EditorPointerEnter(p editor.Pointer) editor.Frame {
	return a.edit(func() { a.session.PointerEnter(p) })
}

func (a *App) EditorPointerLeave(p editor.Pointer) editor.Frame {
	return a.edit(func() { a.session.PointerLeave(p) })
}

func (a *App) EditorClick(p editor.Pointer) editor.Frame {
	return a.edit(func() { a.session.Click(p) })
}

func (a *App) EditorKeyDown(k editor.Key) KeyResult {
	var handled bool
	frame := a.edit(func() { handled = a.session.KeyDown(k) })
	return KeyResult{Handled: handled, Frame: frame}
}

func (a *App) EditorKeyUp(k editor.Key) editor.Frame {
	return a.edit(func() { a.session.KeyUp(k) })
}

func (a *App) EditorSelectionChanged(in editor.SelectionInput) editor.Frame {
	return a.edit(func() { a.session.SelectionChanged(in) })
}

func (a *App) EditorTriggerClicked(viewport editor.Size) editor.Frame {
	return a.edit(func() { a.session.TriggerClicked(viewport) })
}

func (a *App) EditorMenuAction(action string) editor.Frame {
	return a.edit(func() { a.session.MenuAction(action) })
}

func (a *App) EditorFormat(style string) editor.Frame {
	return a.edit(func() { a.session.Format(style) })
}

func (a *App) EditorPointerDownOutside() editor.Frame {
	return a.edit(func() { a.session.PointerDownOutside() })
}

// EditorMenuItems lists the block menu entries in display order.
func (a *App) EditorMenuItems() []editor.MenuItem {
	return editor.MenuItems
}
