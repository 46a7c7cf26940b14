package document

import (
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodePath addresses a node by child indexes from the projection root, the
// same way a display surface walks childNodes from its editor element.
type NodePath []int

// Point is a caret position: a rune offset into a block's plain text.
type Point struct {
	Block  *Block
	Offset int
}

// Projection is a display tree together with the index between its
// elements and the blocks they render.
type Projection struct {
	root   *html.Node
	blocks map[*html.Node]*Block
	nodes  map[*Block]*html.Node
	tags   map[*Block]int
}

func newProjection(root *html.Node) *Projection {
	return &Projection{
		root:   root,
		blocks: make(map[*html.Node]*Block),
		nodes:  make(map[*Block]*html.Node),
		tags:   make(map[*Block]int),
	}
}

func (p *Projection) bind(n *html.Node, b *Block) {
	p.blocks[n] = b
	p.nodes[b] = n
}

// Tag returns the data-block number b was rendered or read with. Blocks
// the display surface created itself carry none, or a copy of the number
// of the block they were split from.
func (p *Projection) Tag(b *Block) (int, bool) {
	n, ok := p.tags[b]
	return n, ok
}

// Root returns the synthetic element holding the rendered blocks.
func (p *Projection) Root() *html.Node { return p.root }

// HTML returns the markup of the root's children.
func (p *Projection) HTML() string { return renderNodes(p.root.FirstChild) }

// NodeOf returns the element rendering b, or nil.
func (p *Projection) NodeOf(b *Block) *html.Node { return p.nodes[b] }

// Resolve maps a path to a node. Out of range paths yield nil.
func (p *Projection) Resolve(path NodePath) *html.Node {
	n := p.root
	for _, idx := range path {
		if idx < 0 {
			return nil
		}
		c := n.FirstChild
		for ; c != nil && idx > 0; idx-- {
			c = c.NextSibling
		}
		if c == nil {
			return nil
		}
		n = c
	}
	return n
}

// PathOf returns the path from the root to n, or nil when n is not under
// the root.
func (p *Projection) PathOf(n *html.Node) NodePath {
	var rev []int
	for ; n != nil && n != p.root; n = n.Parent {
		idx := 0
		for s := n.PrevSibling; s != nil; s = s.PrevSibling {
			idx++
		}
		rev = append(rev, idx)
	}
	if n == nil {
		return nil
	}
	path := make(NodePath, len(rev))
	for i, idx := range rev {
		path[len(rev)-1-i] = idx
	}
	return path
}

// BlockPath returns the path of the element rendering b.
func (p *Projection) BlockPath(b *Block) NodePath {
	if n := p.nodes[b]; n != nil {
		return p.PathOf(n)
	}
	return nil
}

// Locate returns the block whose line element encloses n: the nearest
// p, div, h1-h6 or li ancestor (n included) that renders a block. It returns
// nil once the walk reaches the root or leaves the tree.
func (p *Projection) Locate(n *html.Node) *Block {
	for ; n != nil && n != p.root; n = n.Parent {
		if n.Type != html.ElementNode || !blockAtoms[n.DataAtom] {
			continue
		}
		if b := p.blocks[n]; b != nil {
			return b
		}
	}
	return nil
}

// LocatePath is Locate after Resolve.
func (p *Projection) LocatePath(path NodePath) *Block {
	if n := p.Resolve(path); n != nil {
		return p.Locate(n)
	}
	return nil
}

// Point converts a display position into a block offset. For a text node
// offset counts runes; for an element it is a child index.
func (p *Projection) Point(path NodePath, offset int) (Point, bool) {
	target := p.Resolve(path)
	if target == nil {
		return Point{}, false
	}
	b := p.Locate(target)
	if b == nil {
		return Point{}, false
	}
	pos, ok := inlineOffset(p.nodes[b], target, offset)
	if !ok {
		return Point{}, false
	}
	return Point{Block: b, Offset: pos}, true
}

// Locus is the inverse of Point: it returns the path and offset a display
// surface needs to place a caret at pt.
func (p *Projection) Locus(pt Point) (NodePath, int, bool) {
	bn := p.nodes[pt.Block]
	if bn == nil {
		return nil, 0, false
	}
	remaining := pt.Offset
	var (
		found   *html.Node
		foundAt int
	)
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				l := utf8.RuneCountInString(c.Data)
				if remaining <= l {
					found, foundAt = c, remaining
					return true
				}
				remaining -= l
			case c.Type == html.ElementNode && c.DataAtom == atom.Br:
				if remaining == 0 {
					found, foundAt = n, childIndex(c)
					return true
				}
				remaining--
			case c.Type == html.ElementNode && blockLevel[c.DataAtom]:
				return false
			case c.Type == html.ElementNode:
				if walk(c) {
					return true
				}
			}
		}
		return false
	}
	if !walk(bn) {
		found, foundAt = bn, inlineChildren(bn)
	}
	return p.PathOf(found), foundAt, true
}

// inlineOffset counts the runes of inline content in bn before the
// position (target, offset).
func inlineOffset(bn, target *html.Node, offset int) (int, bool) {
	pos := 0
	done := false
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n == target {
			done = true
			if n.Type == html.TextNode {
				pos += min(max(offset, 0), utf8.RuneCountInString(n.Data))
				return
			}
			i := 0
			for c := n.FirstChild; c != nil && i < offset; c = c.NextSibling {
				if c.Type == html.ElementNode && blockLevel[c.DataAtom] {
					break
				}
				pos += inlineLen(c)
				i++
			}
			return
		}
		switch {
		case n.Type == html.TextNode:
			pos += utf8.RuneCountInString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			pos++
		default:
			for c := n.FirstChild; c != nil && !done; c = c.NextSibling {
				if n == bn && c.Type == html.ElementNode && blockLevel[c.DataAtom] {
					return
				}
				walk(c)
			}
		}
	}
	walk(bn)
	return pos, done
}

func inlineLen(n *html.Node) int {
	switch {
	case n.Type == html.TextNode:
		return utf8.RuneCountInString(n.Data)
	case n.Type == html.ElementNode && n.DataAtom == atom.Br:
		return 1
	}
	l := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		l += inlineLen(c)
	}
	return l
}

func inlineChildren(n *html.Node) int {
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockLevel[c.DataAtom] {
			break
		}
		i++
	}
	return i
}

func childIndex(n *html.Node) int {
	i := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		i++
	}
	return i
}
