package editor_test

import (
	"testing"

	"ordna/internal/document"
	"ordna/internal/editor"
)

func pt(b *document.Block, off int) document.Point {
	return document.Point{Block: b, Offset: off}
}

func TestFormatter_ToggleIsInvolution(t *testing.T) {
	doc := parse(t, `<p>Hello <i>wide</i> world</p>`)
	var f editor.Formatter
	p := doc.First()
	r := editor.Range{Start: pt(p, 2), End: pt(p, 12)}

	before := f.ActiveStyles(doc, r)
	for _, style := range document.AllStyles {
		if !f.Toggle(doc, r, style) {
			t.Fatalf("%s: expected toggle", style)
		}
		if !f.ActiveStyles(doc, r).Has(style) {
			t.Errorf("%s: expected style active after first toggle", style)
		}
		f.Toggle(doc, r, style)
		if got := f.ActiveStyles(doc, r); got != before {
			t.Errorf("%s: expected %v after second toggle, got %v", style, before, got)
		}
	}
}

func TestFormatter_ToggleTwiceRestoresMarkup(t *testing.T) {
	doc := parse(t, `<p>Hello <i>wide</i> world</p>`)
	var f editor.Formatter
	p := doc.First()
	r := editor.Range{Start: pt(p, 2), End: pt(p, 12)}
	f.Toggle(doc, r, document.Bold)
	expectHTML(t, doc, `<p>He<b>llo </b><b><i>wide</i></b><b> w</b>orld</p>`)
	f.Toggle(doc, r, document.Bold)
	expectHTML(t, doc, `<p>Hello <i>wide</i> world</p>`)
}

func TestFormatter_MixedSelectionApplies(t *testing.T) {
	doc := parse(t, `<p><b>ab</b>cd</p>`)
	var f editor.Formatter
	p := doc.First()
	f.Toggle(doc, editor.Range{Start: pt(p, 0), End: pt(p, 4)}, document.Bold)
	expectHTML(t, doc, `<p><b>abcd</b></p>`)
}

func TestFormatter_AcrossBlocks(t *testing.T) {
	doc := parse(t, `<p>abc</p><hr/><ul><li>def</li></ul>`)
	var f editor.Formatter
	first := doc.First()
	item := doc.Leaves()[2]
	r := editor.OrderedRange(doc, pt(item, 2), pt(first, 1))
	if r.Start.Block != first {
		t.Fatal("expected range ordered by document position")
	}
	if got := editor.RangeText(doc, r); got != "bc\nde" {
		t.Errorf("expected selected text 'bc\\nde', got %q", got)
	}
	f.Toggle(doc, r, document.Underline)
	expectHTML(t, doc, `<p>a<u>bc</u></p><hr/><ul><li><u>de</u>f</li></ul>`)
	if f.ActiveStyles(doc, r) != document.Underline {
		t.Errorf("expected underline active")
	}
}

func TestFormatter_CollapsedIsNoop(t *testing.T) {
	doc := parse(t, `<p>abc</p>`)
	var f editor.Formatter
	p := doc.First()
	if f.Toggle(doc, editor.Range{Start: pt(p, 1), End: pt(p, 1)}, document.Bold) {
		t.Error("expected collapsed toggle to be a no-op")
	}
	if f.ActiveStyles(doc, editor.Range{Start: pt(p, 1), End: pt(p, 1)}) != 0 {
		t.Error("expected no active styles")
	}
	expectHTML(t, doc, `<p>abc</p>`)
}
