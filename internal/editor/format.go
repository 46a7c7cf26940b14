package editor

import (
	"strings"

	"ordna/internal/document"
)

// Range is a selection between two points, Start first in document order.
type Range struct {
	Start document.Point
	End   document.Point
}

// Collapsed reports whether the range selects nothing.
func (r Range) Collapsed() bool {
	return r.Start.Block == r.End.Block && r.Start.Offset == r.End.Offset
}

// OrderedRange builds a Range from an anchor and a focus in either order.
func OrderedRange(doc *document.Document, anchor, focus document.Point) Range {
	if anchor.Block == focus.Block {
		if focus.Offset < anchor.Offset {
			anchor, focus = focus, anchor
		}
		return Range{Start: anchor, End: focus}
	}
	for _, b := range doc.Leaves() {
		switch b {
		case anchor.Block:
			return Range{Start: anchor, End: focus}
		case focus.Block:
			return Range{Start: focus, End: anchor}
		}
	}
	return Range{Start: anchor, End: focus}
}

type segment struct {
	block    *document.Block
	from, to int
}

// segments splits r into per-block rune spans over text blocks, in
// document order.
func segments(doc *document.Document, r Range) []segment {
	if r.Collapsed() || !doc.Contains(r.Start.Block) || !doc.Contains(r.End.Block) {
		return nil
	}
	var out []segment
	inside := false
	for _, b := range doc.Leaves() {
		if b == r.Start.Block {
			inside = true
		}
		if !inside {
			continue
		}
		if b.Kind.HasText() {
			from, to := 0, b.Len()
			if b == r.Start.Block {
				from = min(r.Start.Offset, to)
			}
			if b == r.End.Block {
				to = min(r.End.Offset, to)
			}
			if from < to {
				out = append(out, segment{block: b, from: from, to: to})
			}
		}
		if b == r.End.Block {
			break
		}
	}
	return out
}

// RangeText returns the text covered by r, blocks joined by newlines.
func RangeText(doc *document.Document, r Range) string {
	var parts []string
	for _, s := range segments(doc, r) {
		head, _ := document.SplitRuns(s.block.Runs, s.to)
		_, mid := document.SplitRuns(head, s.from)
		parts = append(parts, document.PlainText(mid))
	}
	return strings.Join(parts, "\n")
}

// Formatter toggles inline styles over a selection.
type Formatter struct{}

// ActiveStyles returns the styles set on every selected character.
func (Formatter) ActiveStyles(doc *document.Document, r Range) document.Style {
	segs := segments(doc, r)
	if len(segs) == 0 {
		return 0
	}
	active := document.Style(0xff)
	for _, s := range segs {
		active &= document.StylesAt(s.block.Runs, s.from, s.to)
	}
	return active
}

// Toggle clears style when it covers the whole selection and sets it over
// the whole selection otherwise. A collapsed selection changes nothing.
func (f Formatter) Toggle(doc *document.Document, r Range, style document.Style) bool {
	segs := segments(doc, r)
	if len(segs) == 0 || style == 0 {
		return false
	}
	on := !f.ActiveStyles(doc, r).Has(style)
	for _, s := range segs {
		s.block.Runs = document.StyleRange(s.block.Runs, s.from, s.to, style, on)
	}
	return true
}
