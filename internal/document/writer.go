package document

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Serialize renders the document as persisted page HTML.
func Serialize(d *Document) string {
	w := writer{doc: d}
	return w.render().HTML()
}

// Project renders the document for display. Every addressable element is
// tagged with a data-block sequence number and indexed back to its block.
func Project(d *Document) *Projection {
	w := writer{doc: d, tag: true}
	return w.render()
}

type writer struct {
	doc  *Document
	tag  bool
	seq  int
	proj *Projection
}

func (w *writer) render() *Projection {
	w.proj = newProjection(newRoot())
	for b := w.doc.first; b != nil; b = b.next {
		for _, n := range w.block(b) {
			w.proj.root.AppendChild(n)
		}
	}
	return w.proj
}

func (w *writer) block(b *Block) []*html.Node {
	if b.Kind == KindRaw {
		return cloneNodes(b.Raw)
	}
	a := b.Kind.atom()
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: w.attrs(b)}
	w.proj.bind(n, b)
	switch {
	case b.Kind.IsContainer():
		for c := b.first; c != nil; c = c.next {
			n.AppendChild(w.block(c)[0])
		}
	case b.Kind == KindTable:
		w.table(n, b.Table)
	case b.Kind.HasText():
		appendRuns(n, b.Runs)
		for _, t := range cloneNodes(b.Trailing) {
			n.AppendChild(t)
		}
	}
	return []*html.Node{n}
}

func (w *writer) attrs(b *Block) []html.Attribute {
	var classes []string
	switch {
	case b.Kind == KindTodoList:
		classes = append(classes, classTodoList)
	case b.Kind == KindTodoItem:
		classes = append(classes, classTodoItem)
		if b.Completed {
			classes = append(classes, classCompleted)
		}
	}
	var styles []string
	if b.Indent > 0 {
		styles = append(styles, "margin-left: "+strconv.Itoa(b.Indent*w.doc.indentStep)+"px")
	}

	var out []html.Attribute
	var rest []html.Attribute
	for _, a := range b.Attrs {
		switch {
		case a.Namespace == "" && a.Key == "class":
			classes = append(classes, a.Val)
		case a.Namespace == "" && a.Key == "style":
			styles = append(styles, a.Val)
		default:
			rest = append(rest, a)
		}
	}
	if len(classes) > 0 {
		out = append(out, html.Attribute{Key: "class", Val: strings.Join(classes, " ")})
	}
	if len(styles) > 0 {
		out = append(out, html.Attribute{Key: "style", Val: strings.Join(styles, "; ")})
	}
	out = append(out, rest...)
	if w.tag {
		w.proj.tags[b] = w.seq
		out = append(out, html.Attribute{Key: attrBlock, Val: strconv.Itoa(w.seq)})
		w.seq++
	}
	return out
}

func (w *writer) table(n *html.Node, t *Table) {
	if t == nil {
		return
	}
	section := func(a atom.Atom, rows [][]Cell) {
		if len(rows) == 0 {
			return
		}
		s := element(a)
		for _, row := range rows {
			tr := element(atom.Tr)
			for _, c := range row {
				cell := element(atom.Td)
				if c.Header {
					cell = element(atom.Th)
				}
				appendRuns(cell, c.Runs)
				tr.AppendChild(cell)
			}
			s.AppendChild(tr)
		}
		n.AppendChild(s)
	}
	section(atom.Thead, t.Head)
	section(atom.Tbody, t.Body)
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

var styleAtoms = map[Style]atom.Atom{
	Bold:      atom.B,
	Italic:    atom.I,
	Underline: atom.U,
	Strike:    atom.S,
}

// appendRuns renders runs as text wrapped in b/i/u/s, nested in that order.
// "\n" becomes <br>.
func appendRuns(parent *html.Node, runs []Run) {
	for _, r := range NormalizeRuns(runs) {
		host := parent
		for _, st := range AllStyles {
			if r.Style&st != 0 {
				e := element(styleAtoms[st])
				host.AppendChild(e)
				host = e
			}
		}
		for i, line := range strings.Split(r.Text, "\n") {
			if i > 0 {
				host.AppendChild(element(atom.Br))
			}
			if line != "" {
				host.AppendChild(&html.Node{Type: html.TextNode, Data: line})
			}
		}
	}
}

func renderNodes(first *html.Node) string {
	var buf bytes.Buffer
	for n := first; n != nil; n = n.NextSibling {
		// Render only fails on writer errors, which bytes.Buffer never returns.
		_ = html.Render(&buf, n)
	}
	return buf.String()
}
