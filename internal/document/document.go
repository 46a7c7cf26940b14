package document

// DefaultIndentStep is the margin-left width, in pixels, of one indent level.
const DefaultIndentStep = 20

// Document is an ordered tree of blocks. Top-level blocks are siblings;
// list containers hold their items as children. All operations take block
// references and return false, leaving the tree untouched, when a reference
// does not belong to this document.
type Document struct {
	first, last *Block
	indentStep  int
}

// Option configures a Document.
type Option func(*Document)

// WithIndentStep sets the pixel width of one indent level.
func WithIndentStep(px int) Option {
	return func(d *Document) {
		if px > 0 {
			d.indentStep = px
		}
	}
}

// New returns an empty document.
func New(opts ...Option) *Document {
	d := &Document{indentStep: DefaultIndentStep}
	for _, o := range opts {
		o(d)
	}
	return d
}

// IndentStep returns the pixel width of one indent level.
func (d *Document) IndentStep() int { return d.indentStep }

// First returns the first top-level block.
func (d *Document) First() *Block { return d.first }

// Contains reports whether b is attached to d.
func (d *Document) Contains(b *Block) bool {
	return b != nil && b.doc == d
}

// Blocks returns the top-level blocks in order.
func (d *Document) Blocks() []*Block {
	var out []*Block
	for b := d.first; b != nil; b = b.next {
		out = append(out, b)
	}
	return out
}

// Len returns the number of top-level blocks.
func (d *Document) Len() int {
	n := 0
	for b := d.first; b != nil; b = b.next {
		n++
	}
	return n
}

// Walk visits every block depth first in document order. Returning false
// from fn stops the walk.
func (d *Document) Walk(fn func(*Block) bool) {
	var walk func(b *Block) bool
	walk = func(b *Block) bool {
		for ; b != nil; b = b.next {
			if !fn(b) {
				return false
			}
			if !walk(b.first) {
				return false
			}
		}
		return true
	}
	walk(d.first)
}

// Leaves returns every non-container block in document order. These are
// the blocks a user can point at.
func (d *Document) Leaves() []*Block {
	var out []*Block
	d.Walk(func(b *Block) bool {
		if !b.Kind.IsContainer() {
			out = append(out, b)
		}
		return true
	})
	return out
}

// Append adds a detached block at the end of the document.
func (d *Document) Append(b *Block) bool {
	if !detached(b) {
		return false
	}
	d.link(nil, d.last, nil, b)
	return true
}

// ReplaceBlock puts nb at old's position and detaches old.
func (d *Document) ReplaceBlock(old, nb *Block) bool {
	if !d.Contains(old) || !detached(nb) || old == nb {
		return false
	}
	parent, prev, next := old.parent, old.prev, old.next
	d.unlink(old)
	d.link(parent, prev, next, nb)
	return true
}

// RemoveBlock detaches b. A container left without items is removed too.
func (d *Document) RemoveBlock(b *Block) bool {
	if !d.Contains(b) {
		return false
	}
	parent := b.parent
	d.unlink(b)
	if parent != nil && parent.first == nil && parent.Kind.IsContainer() {
		d.unlink(parent)
	}
	return true
}

// InsertBefore links the detached block b immediately before anchor.
func (d *Document) InsertBefore(anchor, b *Block) bool {
	if !d.Contains(anchor) || !detached(b) {
		return false
	}
	d.link(anchor.parent, anchor.prev, anchor, b)
	return true
}

// InsertAfter links the detached block b immediately after ref.
func (d *Document) InsertAfter(ref, b *Block) bool {
	if !d.Contains(ref) || !detached(b) {
		return false
	}
	d.link(ref.parent, ref, ref.next, b)
	return true
}

// InsertContainerBefore inserts a new list container immediately before
// anchor, as anchor's sibling.
func (d *Document) InsertContainerBefore(anchor, container *Block) bool {
	if container == nil || !container.Kind.IsContainer() {
		return false
	}
	return d.InsertBefore(anchor, container)
}

// AppendItem adds a detached item at the end of container.
func (d *Document) AppendItem(container, item *Block) bool {
	if !d.Contains(container) || !container.Kind.IsContainer() || !detached(item) || !item.Kind.IsItem() {
		return false
	}
	d.link(container, container.last, nil, item)
	return true
}

// LiftItem moves an item out of its container to the container's level,
// splitting the container around it. Empty halves are dropped. The item
// keeps its kind; callers usually replace it right after.
func (d *Document) LiftItem(item *Block) bool {
	if !d.Contains(item) || item.parent == nil {
		return false
	}
	container := item.parent
	var tail *Block
	if item.next != nil {
		tail = &Block{Kind: container.Kind, Indent: container.Indent, Attrs: append(container.Attrs[:0:0], container.Attrs...)}
		for c := item.next; c != nil; {
			next := c.next
			d.unlink(c)
			tail.appendChild(c)
			c = next
		}
	}
	d.unlink(item)
	d.link(container.parent, container, container.next, item)
	if tail != nil {
		d.link(item.parent, item, item.next, tail)
	}
	if container.first == nil {
		d.unlink(container)
	}
	return true
}

func detached(b *Block) bool {
	return b != nil && b.doc == nil && b.parent == nil && b.prev == nil && b.next == nil
}

// link inserts b between prev and next under parent (nil for top level).
func (d *Document) link(parent, prev, next, b *Block) {
	b.parent, b.prev, b.next = parent, prev, next
	if prev != nil {
		prev.next = b
	} else if parent != nil {
		parent.first = b
	} else {
		d.first = b
	}
	if next != nil {
		next.prev = b
	} else if parent != nil {
		parent.last = b
	} else {
		d.last = b
	}
	b.setDoc(d)
}

func (d *Document) unlink(b *Block) {
	if b.prev != nil {
		b.prev.next = b.next
	} else if b.parent != nil {
		b.parent.first = b.next
	} else {
		d.first = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	} else if b.parent != nil {
		b.parent.last = b.prev
	} else {
		d.last = b.prev
	}
	b.parent, b.prev, b.next = nil, nil, nil
	b.setDoc(nil)
}

func (b *Block) setDoc(d *Document) {
	b.doc = d
	for c := b.first; c != nil; c = c.next {
		c.setDoc(d)
	}
}
