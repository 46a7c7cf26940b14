package editor

// Rect is a viewport rectangle as reported by the display surface.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }
func (r Rect) midY() float64   { return r.Y + r.Height/2 }

// Size is a viewport or popup size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Position is a top-left placement in viewport coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

const (
	ViewportMargin = 10

	TriggerOffsetX    = 35
	TriggerHalfHeight = 12

	BlockMenuOffsetX    = 360
	BlockMenuHalfHeight = 50

	ToolbarWidth  = 200
	ToolbarHeight = 40
	ToolbarLift   = 50
)

// PlaceTrigger puts the hover trigger left of the block, vertically centred.
func PlaceTrigger(block Rect) Position {
	return Position{X: block.X - TriggerOffsetX, Y: block.midY() - TriggerHalfHeight}
}

// PlaceBlockMenu puts the block-kind menu to the left of the block, kept
// inside the viewport margin.
func PlaceBlockMenu(block Rect, vp Size) Position {
	p := Position{X: block.X - BlockMenuOffsetX, Y: block.midY() - BlockMenuHalfHeight}
	if p.X < ViewportMargin {
		p.X = ViewportMargin
	}
	if p.Y < ViewportMargin {
		p.Y = ViewportMargin
	}
	if vp.Height > 0 && p.Y > vp.Height-ViewportMargin {
		p.Y = vp.Height - ViewportMargin
	}
	return p
}

// PlaceToolbar centres the format toolbar above the selection box. It moves
// below the selection when it would clip the top edge. A zero sized
// selection box has no placement.
func PlaceToolbar(sel Rect, vp Size) (Position, bool) {
	if sel.Width == 0 || sel.Height == 0 {
		return Position{}, false
	}
	p := Position{X: sel.X + sel.Width/2 - ToolbarWidth/2, Y: sel.Y - ToolbarLift}
	if p.X < ViewportMargin {
		p.X = ViewportMargin
	}
	if p.X+ToolbarWidth > vp.Width-ViewportMargin {
		p.X = vp.Width - ToolbarWidth - ViewportMargin
	}
	if p.Y < ViewportMargin {
		p.Y = sel.Bottom() + ViewportMargin
	}
	return p, true
}

// PlaceMenu positions a popup menu next to the button that opened it:
// left of the button when there is room, otherwise right of it, and above
// the button when it would overflow the bottom edge.
func PlaceMenu(button Rect, menu, vp Size) Position {
	p := Position{X: button.X - menu.Width, Y: button.Bottom() + 5}
	if p.X < ViewportMargin {
		p.X = button.Right() + 5
	}
	if p.X+menu.Width > vp.Width-ViewportMargin {
		p.X = vp.Width - menu.Width - ViewportMargin
	}
	if p.Y+menu.Height > vp.Height-ViewportMargin {
		p.Y = button.Y - menu.Height - 5
	}
	if p.Y < ViewportMargin {
		p.Y = ViewportMargin
	}
	return p
}
