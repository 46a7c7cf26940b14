package editor

import (
	"ordna/internal/document"
)

// Surface holds the floating controls around the editor: at most one hover
// trigger, at most one block-kind menu bound to its target block, and the
// format toolbar.
type Surface struct {
	trigger *anchored
	menu    *anchored
	toolbar *toolbarState
}

type anchored struct {
	block *document.Block
	rect  Rect
	pos   Position
}

type toolbarState struct {
	pos    Position
	active document.Style
}

// ShowTrigger shows the hover trigger beside b, removing any previous one.
func (s *Surface) ShowTrigger(b *document.Block, rect Rect) {
	s.trigger = &anchored{block: b, rect: rect, pos: PlaceTrigger(rect)}
}

// HideTrigger removes the trigger and the menu it opened.
func (s *Surface) HideTrigger() {
	s.trigger = nil
	s.menu = nil
}

func (s *Surface) TriggerBlock() *document.Block {
	if s.trigger == nil {
		return nil
	}
	return s.trigger.block
}

// OpenMenu opens the block-kind menu for the trigger's block. Without a
// trigger there is nothing to target and the call is ignored.
func (s *Surface) OpenMenu(vp Size) bool {
	if s.trigger == nil {
		return false
	}
	s.menu = &anchored{
		block: s.trigger.block,
		rect:  s.trigger.rect,
		pos:   PlaceBlockMenu(s.trigger.rect, vp),
	}
	return true
}

func (s *Surface) CloseMenu() { s.menu = nil }

func (s *Surface) MenuOpen() bool { return s.menu != nil }

// MenuTarget returns the block the open menu acts on.
func (s *Surface) MenuTarget() *document.Block {
	if s.menu == nil {
		return nil
	}
	return s.menu.block
}

// Retarget moves the trigger from old to nb after a transform replaced it.
func (s *Surface) Retarget(old, nb *document.Block) {
	if s.trigger != nil && s.trigger.block == old {
		s.trigger.block = nb
	}
	if s.menu != nil && s.menu.block == old {
		s.menu.block = nb
	}
}

// rebind points the trigger and the menu at blocks of a new document.
func (s *Surface) rebind(trigger, menu *document.Block) {
	if s.trigger != nil {
		s.trigger.block = trigger
	}
	if s.menu != nil {
		s.menu.block = menu
	}
}

// ShowToolbar places the toolbar over the selection box. A degenerate box
// hides it.
func (s *Surface) ShowToolbar(bounds Rect, vp Size, active document.Style) {
	pos, ok := PlaceToolbar(bounds, vp)
	if !ok {
		s.toolbar = nil
		return
	}
	s.toolbar = &toolbarState{pos: pos, active: active}
}

// SetActive refreshes the toolbar's active styles in place.
func (s *Surface) SetActive(active document.Style) {
	if s.toolbar != nil {
		s.toolbar.active = active
	}
}

func (s *Surface) HideToolbar() { s.toolbar = nil }

// HideAll removes every control.
func (s *Surface) HideAll() {
	s.trigger = nil
	s.menu = nil
	s.toolbar = nil
}

// View is the serialisable state of the surface. Blocks are addressed by
// their element path in the current projection.
type View struct {
	Trigger *TriggerView `json:"trigger,omitempty"`
	Menu    *MenuView    `json:"menu,omitempty"`
	Toolbar *ToolbarView `json:"toolbar,omitempty"`
}

type TriggerView struct {
	Block document.NodePath `json:"block"`
	Position
}

type MenuView struct {
	Block document.NodePath `json:"block"`
	Position
	Items []MenuItem `json:"items"`
}

type ToolbarView struct {
	Position
	Active []string `json:"active"`
}

// View renders the surface against proj. Controls whose block is no longer
// projected are left out.
func (s *Surface) View(proj *document.Projection) View {
	var v View
	if s.trigger != nil {
		if path := proj.BlockPath(s.trigger.block); path != nil {
			v.Trigger = &TriggerView{Block: path, Position: s.trigger.pos}
		}
	}
	if s.menu != nil {
		if path := proj.BlockPath(s.menu.block); path != nil {
			v.Menu = &MenuView{Block: path, Position: s.menu.pos, Items: MenuItems}
		}
	}
	if s.toolbar != nil {
		v.Toolbar = &ToolbarView{Position: s.toolbar.pos, Active: s.toolbar.active.Names()}
	}
	return v
}
