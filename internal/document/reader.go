package document

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockAtoms are the elements a pointer or caret can land on as a line.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

// blockLevel are elements that break inline flow. Inside a list item they
// start the trailing (nested) part.
var blockLevel = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Ul: true, atom.Ol: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Table: true, atom.Hr: true, atom.Pre: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.Figure: true, atom.Dl: true, atom.Form: true, atom.Nav: true, atom.Aside: true,
}

const (
	classTodoList  = "todo-list"
	classTodoItem  = "todo-item"
	classCompleted = "completed"
	attrBlock      = "data-block"
)

// Parse reads persisted page HTML into a Document.
func Parse(src string, opts ...Option) (*Document, error) {
	doc, _, err := ParseProjection(src, opts...)
	return doc, err
}

// ParseProjection reads HTML and keeps the parsed tree as the projection,
// so paths reported by a display surface holding the same markup resolve
// against it.
func ParseProjection(src string, opts ...Option) (*Document, *Projection, error) {
	root := newRoot()
	nodes, err := html.ParseFragment(strings.NewReader(src), root)
	if err != nil {
		return nil, nil, fmt.Errorf("parse fragment: %w", err)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	doc := New(opts...)
	proj := newProjection(root)
	r := reader{doc: doc, proj: proj}
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if b := r.block(n); b != nil {
			doc.Append(b)
		}
	}
	return doc, proj, nil
}

func newRoot() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
}

type reader struct {
	doc  *Document
	proj *Projection
}

func (r *reader) block(n *html.Node) *Block {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return r.raw(n)
	case html.ElementNode:
	default:
		return r.raw(n)
	}

	switch n.DataAtom {
	case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Div, atom.Blockquote:
		if hasBlockChild(n) {
			return r.raw(n)
		}
		b := &Block{Kind: textKind(n.DataAtom)}
		r.attrs(b, n)
		b.Runs = readRuns(n, nil)
		r.proj.bind(n, b)
		return b
	case atom.Hr:
		b := &Block{Kind: KindDivider}
		r.attrs(b, n)
		r.proj.bind(n, b)
		return b
	case atom.Table:
		t, ok := readTable(n)
		if !ok {
			return r.raw(n)
		}
		b := &Block{Kind: KindTable, Table: t}
		r.attrs(b, n)
		r.proj.bind(n, b)
		return b
	case atom.Ul, atom.Ol:
		return r.container(n)
	}
	return r.raw(n)
}

func (r *reader) container(n *html.Node) *Block {
	kind := KindUnorderedList
	switch {
	case n.DataAtom == atom.Ol:
		kind = KindOrderedList
	case hasClass(n, classTodoList):
		kind = KindTodoList
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			continue
		}
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		return r.raw(n)
	}

	b := &Block{Kind: kind}
	r.attrs(b, n)
	r.proj.bind(n, b)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		item := &Block{Kind: kind.ItemKind()}
		r.attrs(item, c)
		item.Completed = kind == KindTodoList && hasClass(c, classCompleted)
		var inline []*html.Node
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			if len(item.Trailing) == 0 && !(cc.Type == html.ElementNode && blockLevel[cc.DataAtom]) {
				inline = append(inline, cc)
				continue
			}
			item.Trailing = append(item.Trailing, cloneNode(cc))
		}
		for _, cc := range inline {
			item.Runs = append(item.Runs, readRuns(cc, nil)...)
		}
		item.Runs = NormalizeRuns(item.Runs)
		r.proj.bind(c, item)
		b.appendChild(item)
	}
	return b
}

func (r *reader) raw(n *html.Node) *Block {
	return &Block{Kind: KindRaw, Raw: []*html.Node{cloneNode(n)}}
}

// attrs copies n's attributes onto b, lifting margin-left into Indent and
// dropping the classes the block kind already encodes.
func (r *reader) attrs(b *Block, n *html.Node) {
	for _, a := range n.Attr {
		if a.Namespace != "" {
			b.Attrs = append(b.Attrs, a)
			continue
		}
		switch a.Key {
		case attrBlock:
			if n, err := strconv.Atoi(a.Val); err == nil {
				r.proj.tags[b] = n
			}
		case "style":
			rest, indent := splitIndent(a.Val, r.doc.indentStep)
			b.Indent = indent
			if rest != "" {
				b.Attrs = append(b.Attrs, html.Attribute{Key: "style", Val: rest})
			}
		case "class":
			var keep []string
			for _, c := range strings.Fields(a.Val) {
				switch c {
				case classTodoList, classTodoItem, classCompleted:
				default:
					keep = append(keep, c)
				}
			}
			if len(keep) > 0 {
				b.Attrs = append(b.Attrs, html.Attribute{Key: "class", Val: strings.Join(keep, " ")})
			}
		default:
			b.Attrs = append(b.Attrs, a)
		}
	}
}

// splitIndent removes a pixel margin-left declaration from a style
// attribute and converts it to indent levels.
func splitIndent(style string, step int) (string, int) {
	var keep []string
	indent := 0
	for _, decl := range strings.Split(style, ";") {
		name, val, ok := strings.Cut(decl, ":")
		name = strings.ToLower(strings.TrimSpace(name))
		val = strings.TrimSpace(val)
		if !ok || name == "" {
			continue
		}
		if name == "margin-left" && strings.HasSuffix(val, "px") {
			if px, err := strconv.ParseFloat(strings.TrimSuffix(val, "px"), 64); err == nil {
				if px > 0 {
					indent = int(math.Round(px / float64(step)))
				}
				continue
			}
		}
		keep = append(keep, name+": "+val)
	}
	return strings.Join(keep, "; "), indent
}

func readTable(n *html.Node) (*Table, bool) {
	t := &Table{}
	readRows := func(section *html.Node, head bool) bool {
		for tr := section.FirstChild; tr != nil; tr = tr.NextSibling {
			if tr.Type == html.TextNode && strings.TrimSpace(tr.Data) == "" {
				continue
			}
			if tr.Type != html.ElementNode || tr.DataAtom != atom.Tr {
				return false
			}
			var row []Cell
			for td := tr.FirstChild; td != nil; td = td.NextSibling {
				if td.Type != html.ElementNode {
					continue
				}
				if td.DataAtom != atom.Td && td.DataAtom != atom.Th {
					return false
				}
				row = append(row, Cell{Runs: NormalizeRuns(readRuns(td, nil)), Header: td.DataAtom == atom.Th})
			}
			if head {
				t.Head = append(t.Head, row)
			} else {
				t.Body = append(t.Body, row)
			}
		}
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		if c.Type != html.ElementNode {
			return nil, false
		}
		var ok bool
		switch c.DataAtom {
		case atom.Thead:
			ok = readRows(c, true)
		case atom.Tbody, atom.Tfoot:
			ok = readRows(c, false)
		}
		if !ok {
			return nil, false
		}
	}
	return t, true
}

// readRuns collects the inline text under n. Newlines inside text nodes
// are whitespace in HTML and become spaces; <br> becomes "\n".
func readRuns(n *html.Node, runs []Run) []Run {
	var walk func(n *html.Node, st Style)
	walk = func(n *html.Node, st Style) {
		switch n.Type {
		case html.TextNode:
			runs = append(runs, Run{Text: flattenSpace(n.Data), Style: st})
			return
		case html.ElementNode:
		default:
			return
		}
		switch n.DataAtom {
		case atom.Br:
			runs = append(runs, Run{Text: "\n", Style: st})
			return
		case atom.B, atom.Strong:
			st |= Bold
		case atom.I, atom.Em:
			st |= Italic
		case atom.U:
			st |= Underline
		case atom.S, atom.Strike, atom.Del:
			st |= Strike
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, st)
		}
	}
	if n.Type == html.ElementNode && (blockAtoms[n.DataAtom] || n.DataAtom == atom.Blockquote || n.DataAtom == atom.Td || n.DataAtom == atom.Th) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, 0)
		}
	} else {
		walk(n, 0)
	}
	return NormalizeRuns(runs)
}

func flattenSpace(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

func textKind(a atom.Atom) Kind {
	switch a {
	case atom.P:
		return KindParagraph
	case atom.Div:
		return KindGeneric
	case atom.Blockquote:
		return KindQuote
	}
	k, _ := HeadingKind(int(a.String()[1] - '0'))
	return k
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockLevel[c.DataAtom] {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(cloneNode(ch))
	}
	return c
}

func cloneNodes(ns []*html.Node) []*html.Node {
	if ns == nil {
		return nil
	}
	out := make([]*html.Node, len(ns))
	for i, n := range ns {
		out[i] = cloneNode(n)
	}
	return out
}

func nodeText(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodeText(sb, c)
	}
}
