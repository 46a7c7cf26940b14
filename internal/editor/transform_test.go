package editor_test

import (
	"testing"

	"ordna/internal/document"
	"ordna/internal/editor"
)

func parse(t *testing.T, src string) *document.Document {
	t.Helper()
	doc, err := document.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func expectHTML(t *testing.T, doc *document.Document, want string) {
	t.Helper()
	if got := document.Serialize(doc); got != want {
		t.Errorf("unexpected document\nwant: %s\n got: %s", want, got)
	}
}

// ─────────────────────────────────────────────────────────────
// Kind changes
// ─────────────────────────────────────────────────────────────

func TestSetKind_HeadingThenParagraphKeepsText(t *testing.T) {
	sources := []string{
		`<p>Hi <b>there</b></p>`,
		`<blockquote>Hi there</blockquote>`,
		`<ul><li>Hi <i>there</i></li></ul>`,
		`<div>Hi there</div>`,
		`<h3>Hi there</h3>`,
		`<ul class="todo-list"><li class="todo-item completed">Hi there</li></ul>`,
	}
	var tr editor.Transformer
	for _, src := range sources {
		for level := 1; level <= 4; level++ {
			doc := parse(t, src)
			heading, _ := document.HeadingKind(level)
			h, ok := tr.SetKind(doc, doc.Leaves()[0], heading)
			if !ok {
				t.Fatalf("%s: heading %d failed", src, level)
			}
			p, ok := tr.SetKind(doc, h, document.KindParagraph)
			if !ok {
				t.Fatalf("%s: paragraph failed", src)
			}
			if p.Text() != "Hi there" {
				t.Errorf("%s: expected 'Hi there', got %q", src, p.Text())
			}
			expectHTML(t, doc, `<p>Hi there</p>`)
		}
	}
}

func TestSetKind_StripsAttributesKeepsIndent(t *testing.T) {
	doc := parse(t, `<p class="big" style="color: red; margin-left: 40px">title</p>`)
	var tr editor.Transformer
	if _, ok := tr.SetKind(doc, doc.First(), document.KindHeading1); !ok {
		t.Fatal("expected transform")
	}
	expectHTML(t, doc, `<h1 style="margin-left: 40px">title</h1>`)
}

func TestSetKind_PreserveInlineStyles(t *testing.T) {
	doc := parse(t, `<p><b>x</b>y</p>`)
	tr := editor.Transformer{PreserveInlineStyles: true}
	tr.SetKind(doc, doc.First(), document.KindHeading2)
	expectHTML(t, doc, `<h2><b>x</b>y</h2>`)
}

func TestSetKind_DividerAndTable(t *testing.T) {
	doc := parse(t, `<p style="margin-left: 20px">gone</p><p>also gone</p>`)
	var tr editor.Transformer
	bs := doc.Blocks()
	tr.SetKind(doc, bs[0], document.KindDivider)
	tr.SetKind(doc, bs[1], document.KindTable)
	expectHTML(t, doc, `<hr style="margin-left: 20px"/>`+
		`<table><thead><tr><th>Column 1</th><th>Column 2</th><th>Column 3</th></tr></thead>`+
		`<tbody><tr><td>Cell 1</td><td>Cell 2</td><td>Cell 3</td></tr></tbody></table>`)
}

func TestSetKind_LiftsItemOutOfList(t *testing.T) {
	doc := parse(t, `<ol><li>1</li><li>2</li><li>3</li></ol>`)
	var tr editor.Transformer
	tr.SetKind(doc, doc.First().Items()[1], document.KindQuote)
	expectHTML(t, doc, `<ol><li>1</li></ol><blockquote>2</blockquote><ol><li>3</li></ol>`)
}

func TestApply_ForeignTargetIsDropped(t *testing.T) {
	doc := parse(t, `<p>a</p>`)
	other := parse(t, `<p>b</p>`)
	var tr editor.Transformer
	for _, a := range []editor.Action{editor.ActionHeading1, editor.ActionTodo, editor.ActionIndent} {
		if _, ok := tr.Apply(doc, other.First(), a); ok {
			t.Errorf("%s: expected no-op on foreign block", a)
		}
	}
	if _, ok := tr.Apply(doc, nil, editor.ActionQuote); ok {
		t.Error("expected no-op on nil target")
	}
	expectHTML(t, doc, `<p>a</p>`)
}

// ─────────────────────────────────────────────────────────────
// Lists
// ─────────────────────────────────────────────────────────────

func TestWrapList_AdjacentBlocksShareContainer(t *testing.T) {
	doc := parse(t, `<p>A</p><p>B</p>`)
	var tr editor.Transformer
	a, b := doc.Blocks()[0], doc.Blocks()[1]

	itemA, ok := tr.Apply(doc, a, editor.ActionUnordered)
	if !ok {
		t.Fatal("expected first wrap")
	}
	expectHTML(t, doc, `<ul><li>A</li></ul><p>B</p>`)
	if b.Document() != doc {
		t.Error("B should be untouched")
	}

	itemB, ok := tr.Apply(doc, b, editor.ActionUnordered)
	if !ok {
		t.Fatal("expected second wrap")
	}
	expectHTML(t, doc, `<ul><li>A</li><li>B</li></ul>`)
	if itemA.Parent() != itemB.Parent() {
		t.Error("expected both items in the same container")
	}
}

func TestWrapList_ContainerKindMismatch(t *testing.T) {
	doc := parse(t, `<ol><li>a</li></ol><p>b</p>`)
	var tr editor.Transformer
	tr.Apply(doc, doc.Blocks()[1], editor.ActionUnordered)
	expectHTML(t, doc, `<ol><li>a</li></ol><ul><li>b</li></ul>`)
}

func TestWrapList_KeepsRunsIndentAndClass(t *testing.T) {
	doc := parse(t, `<p class="x" style="margin-left: 20px; color: red"><b>bold</b> text</p>`)
	var tr editor.Transformer
	tr.Apply(doc, doc.First(), editor.ActionOrdered)
	expectHTML(t, doc, `<ol><li class="x" style="margin-left: 20px"><b>bold</b> text</li></ol>`)
}

func TestWrapList_TodoIsIdempotent(t *testing.T) {
	doc := parse(t, `<ul class="todo-list"><li class="todo-item">x</li></ul>`)
	var tr editor.Transformer
	item := doc.First().FirstItem()
	container := item.Parent()
	before := document.Serialize(doc)

	if _, ok := tr.Apply(doc, item, editor.ActionTodo); ok {
		t.Fatal("expected todo on a todo item to be a no-op")
	}
	if item.Parent() != container || doc.First() != container {
		t.Error("expected same container and item identity")
	}
	if document.Serialize(doc) != before {
		t.Error("document changed")
	}
}

func TestWrapList_ItemsIgnoreListKinds(t *testing.T) {
	doc := parse(t, `<ul><li>a</li></ul><ul class="todo-list"><li class="todo-item">b</li></ul>`)
	var tr editor.Transformer
	for _, leaf := range doc.Leaves() {
		for _, a := range []editor.Action{editor.ActionUnordered, editor.ActionOrdered} {
			if _, ok := tr.Apply(doc, leaf, a); ok {
				t.Errorf("expected %s on %s to be a no-op", a, leaf.Kind)
			}
		}
	}
}

func TestWrapList_TodoFromListItem(t *testing.T) {
	doc := parse(t, `<ul><li>a</li><li>b</li></ul>`)
	var tr editor.Transformer
	item, ok := tr.Apply(doc, doc.First().Items()[1], editor.ActionTodo)
	if !ok {
		t.Fatal("expected list item to become a todo")
	}
	if item.Kind != document.KindTodoItem {
		t.Errorf("expected todo item, got %s", item.Kind)
	}
	expectHTML(t, doc, `<ul><li>a</li></ul><ul class="todo-list"><li class="todo-item">b</li></ul>`)
}

func TestToggleTodo(t *testing.T) {
	doc := parse(t, `<ul class="todo-list"><li class="todo-item">x</li></ul><p>p</p>`)
	var tr editor.Transformer
	item := doc.First().FirstItem()
	if !tr.ToggleTodo(doc, item) || !item.Completed {
		t.Fatal("expected item completed")
	}
	expectHTML(t, doc, `<ul class="todo-list"><li class="todo-item completed">x</li></ul><p>p</p>`)
	tr.ToggleTodo(doc, item)
	if item.Completed {
		t.Error("expected item open again")
	}
	if tr.ToggleTodo(doc, doc.Blocks()[1]) {
		t.Error("paragraph is not a todo")
	}
}

// ─────────────────────────────────────────────────────────────
// Indent
// ─────────────────────────────────────────────────────────────

func TestIndent_Bounded(t *testing.T) {
	doc := parse(t, `<p>x</p>`)
	var tr editor.Transformer
	b := doc.First()
	for i := 0; i < 3; i++ {
		if tr.Indent(doc, b, -1) {
			t.Fatal("outdent at level 0 must be a no-op")
		}
	}
	if b.Indent != 0 {
		t.Fatalf("expected indent 0, got %d", b.Indent)
	}
	for i := 0; i < 4; i++ {
		tr.Indent(doc, b, 1)
	}
	expectHTML(t, doc, `<p style="margin-left: 80px">x</p>`)
	for i := 0; i < 4; i++ {
		tr.Indent(doc, b, -1)
	}
	if b.Indent != 0 {
		t.Errorf("expected indent restored to 0, got %d", b.Indent)
	}
}

func TestParseAction(t *testing.T) {
	for _, item := range editor.MenuItems {
		if _, ok := editor.ParseAction(string(item.Action)); !ok {
			t.Errorf("menu action %q not recognised", item.Action)
		}
	}
	if _, ok := editor.ParseAction("h5"); ok {
		t.Error("h5 is not a menu action")
	}
}
