package document_test

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"ordna/internal/document"
)

func TestLocate_NearestLineElement(t *testing.T) {
	doc, proj, err := document.ParseProjection(`<p>ab<b>cd</b></p><ul><li>x<i>y</i></li></ul>`)
	if err != nil {
		t.Fatal(err)
	}
	para := doc.First()
	item := doc.Blocks()[1].FirstItem()

	tests := []struct {
		name string
		path document.NodePath
		want *document.Block
	}{
		{"text in paragraph", document.NodePath{0, 0}, para},
		{"text inside bold", document.NodePath{0, 1, 0}, para},
		{"paragraph element", document.NodePath{0}, para},
		{"italic in list item", document.NodePath{1, 0, 1, 0}, item},
		{"list container", document.NodePath{1}, nil},
		{"root", document.NodePath{}, nil},
		{"out of range", document.NodePath{7, 0}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := proj.LocatePath(tt.path); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLocate_DetachedNode(t *testing.T) {
	_, proj, err := document.ParseProjection(`<p>a</p>`)
	if err != nil {
		t.Fatal(err)
	}
	stray := &html.Node{Type: html.ElementNode, Data: "p"}
	stray.AppendChild(&html.Node{Type: html.TextNode, Data: "x"})
	if b := proj.Locate(stray.FirstChild); b != nil {
		t.Errorf("expected nil for node outside the projection, got %v", b)
	}
}

func TestPoint_RuneOffsets(t *testing.T) {
	doc, proj, err := document.ParseProjection(`<p>héllo <b>wörld</b></p>`)
	if err != nil {
		t.Fatal(err)
	}
	pt, ok := proj.Point(document.NodePath{0, 1, 0}, 2)
	if !ok {
		t.Fatal("expected point to resolve")
	}
	if pt.Block != doc.First() || pt.Offset != 8 {
		t.Errorf("expected offset 8 in paragraph, got %d", pt.Offset)
	}

	// element position: after the first child
	pt, ok = proj.Point(document.NodePath{0}, 1)
	if !ok || pt.Offset != 6 {
		t.Errorf("expected offset 6, got %d (ok=%v)", pt.Offset, ok)
	}
}

func TestLocus_InvertsPoint(t *testing.T) {
	doc := mustParse(t, `<p>one<br/>two <u>three</u></p><p></p>`)
	proj := document.Project(doc)
	para := doc.First()
	for off := 0; off <= para.Len(); off++ {
		path, at, ok := proj.Locus(document.Point{Block: para, Offset: off})
		if !ok {
			t.Fatalf("offset %d: locus failed", off)
		}
		pt, ok := proj.Point(path, at)
		if !ok || pt.Block != para || pt.Offset != off {
			t.Errorf("offset %d: round trip gave %d (ok=%v)", off, pt.Offset, ok)
		}
	}

	empty := doc.Blocks()[1]
	path, at, ok := proj.Locus(document.Point{Block: empty})
	if !ok || at != 0 || len(path) != 1 || path[0] != 1 {
		t.Errorf("expected empty paragraph element, got %v %d", path, at)
	}
}

func TestProject_TagsBlocks(t *testing.T) {
	doc := mustParse(t, `<p>a</p><ul><li>b</li></ul>`)
	proj := document.Project(doc)
	out := proj.HTML()
	if !strings.Contains(out, `data-block="0"`) || !strings.Contains(out, `<li data-block="2">b</li>`) {
		t.Errorf("expected data-block tags, got %s", out)
	}
	if strings.Contains(document.Serialize(doc), "data-block") {
		t.Error("serialization must not carry editor ids")
	}
	item := doc.Blocks()[1].FirstItem()
	if got := proj.LocatePath(proj.BlockPath(item)); got != item {
		t.Errorf("expected block path to resolve back to the item")
	}

	reparsed := mustParse(t, out)
	if document.Serialize(reparsed) != document.Serialize(doc) {
		t.Error("projection should read back to the same document")
	}
}

func TestProjection_TagsReadBack(t *testing.T) {
	doc := mustParse(t, `<p>a</p><p>b</p>`)
	proj := document.Project(doc)
	if n, ok := proj.Tag(doc.Blocks()[1]); !ok || n != 1 {
		t.Fatalf("expected rendered tag 1, got %d %v", n, ok)
	}

	reread, rp, err := document.ParseProjection(`<p data-block="1">b!</p><p>new</p>`)
	if err != nil {
		t.Fatal(err)
	}
	bs := reread.Blocks()
	if n, ok := rp.Tag(bs[0]); !ok || n != 1 {
		t.Errorf("expected tag 1 read back, got %d %v", n, ok)
	}
	if _, ok := rp.Tag(bs[1]); ok {
		t.Error("untagged block should have no tag")
	}
	if strings.Contains(document.Serialize(reread), "data-block") {
		t.Error("tags must not reach the serialization")
	}
}
