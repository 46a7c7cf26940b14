package editor

import (
	"strings"

	"ordna/internal/document"
)

// TrackerState classifies what the user is addressing.
type TrackerState int

const (
	Idle TrackerState = iota
	HoverCandidate
	RangeSelected
)

func (s TrackerState) String() string {
	switch s {
	case HoverCandidate:
		return "hover"
	case RangeSelected:
		return "range"
	}
	return "idle"
}

// SelectionKind is the shape of the selection.
type SelectionKind int

const (
	SelectionEmpty SelectionKind = iota // none, or outside the document
	SelectionCaret
	SelectionRange
)

// SelectionState is the resolved selection of the display surface.
type SelectionState struct {
	Kind  SelectionKind
	Range Range
	// Block holds the start of the selection.
	Block *document.Block
	Text  string

	Bounds   Rect // selection bounding box
	Line     Rect // line element holding the caret
	Viewport Size
	Active   document.Style
}

func (s SelectionState) hasText() bool {
	return s.Kind == SelectionRange && strings.TrimSpace(s.Text) != ""
}

// Tracker is the hover/caret/range state machine. It drives which of the
// trigger and the toolbar the Surface shows.
type Tracker struct {
	surface *Surface

	state TrackerState
	block *document.Block
	text  string
	sel   SelectionState

	hovered   *document.Block
	hoverRect Rect
}

func NewTracker(s *Surface) *Tracker {
	return &Tracker{surface: s}
}

func (t *Tracker) State() TrackerState { return t.state }
func (t *Tracker) Block() *document.Block { return t.block }
func (t *Tracker) Text() string { return t.text }
func (t *Tracker) Selection() SelectionState { return t.sel }
func (t *Tracker) Hovered() *document.Block { return t.hovered }

// PointerEnter records the block under the pointer and makes it the hover
// candidate. A live range selection or an open menu keeps its target.
func (t *Tracker) PointerEnter(b *document.Block, rect Rect) {
	t.hovered, t.hoverRect = b, rect
	if b == nil || t.state == RangeSelected || t.surface.MenuOpen() {
		return
	}
	t.hover(b, rect)
}

// PointerLeave drops the candidate unless it is blank or holds the caret.
func (t *Tracker) PointerLeave(b *document.Block) {
	if t.hovered == b {
		t.hovered = nil
	}
	if b == nil || t.state != HoverCandidate || t.block != b {
		return
	}
	if b.IsEmpty() || t.caretIn(b) || t.surface.MenuOpen() {
		return
	}
	t.idle()
}

// SelectionChanged applies a new selection. It reports whether the caret
// candidate needs a deferred Settle.
func (t *Tracker) SelectionChanged(sel SelectionState) bool {
	t.sel = sel
	if sel.hasText() {
		t.state, t.block, t.text = RangeSelected, sel.Block, sel.Text
		t.surface.HideTrigger()
		t.surface.ShowToolbar(sel.Bounds, sel.Viewport, sel.Active)
		return false
	}
	t.surface.HideToolbar()
	if t.state == RangeSelected {
		t.state, t.block, t.text = Idle, nil, ""
	}
	return true
}

// Settle re-derives the candidate from the last reported selection once the
// display surface has caught up after a caret move.
func (t *Tracker) Settle() {
	if t.sel.hasText() || t.surface.MenuOpen() {
		return
	}
	if t.sel.Kind != SelectionEmpty && t.sel.Block != nil {
		t.hover(t.sel.Block, t.sel.Line)
		return
	}
	if t.hovered != nil {
		if t.state != HoverCandidate || t.block != t.hovered {
			t.hover(t.hovered, t.hoverRect)
		}
		return
	}
	if t.state == HoverCandidate && t.block != nil && t.block.IsEmpty() {
		return
	}
	t.idle()
}

// Retarget follows a transform that replaced old with nb.
func (t *Tracker) Retarget(old, nb *document.Block) {
	if t.block == old {
		t.block = nb
	}
	if t.hovered == old {
		t.hovered = nb
	}
	if t.sel.Block == old {
		t.sel.Block = nb
	}
	if t.sel.Range.Start.Block == old {
		t.sel.Range.Start.Block = nb
	}
	if t.sel.Range.End.Block == old {
		t.sel.Range.End.Block = nb
	}
	t.surface.Retarget(old, nb)
}

// Remap moves every block reference onto a document that replaced the
// current one. match returns nil for a block with no counterpart; losing
// the tracked block, the trigger's block or the menu's block resets the
// surface.
func (t *Tracker) Remap(match func(*document.Block) *document.Block) {
	remap := func(b *document.Block) (*document.Block, bool) {
		if b == nil {
			return nil, true
		}
		nb := match(b)
		return nb, nb != nil
	}
	block, ok := remap(t.block)
	trigger, okTrigger := remap(t.surface.TriggerBlock())
	menu, okMenu := remap(t.surface.MenuTarget())
	if !ok || !okTrigger || !okMenu {
		t.Reset()
		return
	}
	t.block = block
	t.surface.rebind(trigger, menu)
	t.hovered, _ = remap(t.hovered)

	start, okStart := remap(t.sel.Range.Start.Block)
	end, okEnd := remap(t.sel.Range.End.Block)
	selBlock, okSel := remap(t.sel.Block)
	if !okStart || !okEnd || !okSel {
		t.sel = SelectionState{}
		return
	}
	t.sel.Range.Start.Block, t.sel.Range.End.Block, t.sel.Block = start, end, selBlock
}

// Reset returns to Idle and forgets every block reference.
func (t *Tracker) Reset() {
	t.state, t.block, t.text = Idle, nil, ""
	t.sel = SelectionState{}
	t.hovered = nil
	t.surface.HideAll()
}

func (t *Tracker) hover(b *document.Block, rect Rect) {
	t.state, t.block, t.text = HoverCandidate, b, ""
	t.surface.ShowTrigger(b, rect)
}

func (t *Tracker) idle() {
	t.state, t.block, t.text = Idle, nil, ""
	t.surface.HideTrigger()
}

func (t *Tracker) caretIn(b *document.Block) bool {
	return t.sel.Kind == SelectionCaret && t.sel.Block == b
}
