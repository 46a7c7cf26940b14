package document

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Style is a set of inline formatting flags.
type Style uint8

const (
	Bold Style = 1 << iota
	Italic
	Underline
	Strike
)

// AllStyles lists the styles in the order they nest when rendered.
var AllStyles = []Style{Bold, Italic, Underline, Strike}

var styleNames = map[Style]string{
	Bold:      "bold",
	Italic:    "italic",
	Underline: "underline",
	Strike:    "strikethrough",
}

// Has reports whether every flag in o is set in s.
func (s Style) Has(o Style) bool { return o != 0 && s&o == o }

// Names returns the names of the set flags in render order.
func (s Style) Names() []string {
	names := []string{}
	for _, st := range AllStyles {
		if s&st != 0 {
			names = append(names, styleNames[st])
		}
	}
	return names
}

func (s Style) String() string { return strings.Join(s.Names(), "|") }

// ParseStyle accepts "bold", "italic", "underline", "strikethrough" (or "strike").
func ParseStyle(name string) (Style, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "strike" {
		return Strike, true
	}
	for st, n := range styleNames {
		if n == name {
			return st, true
		}
	}
	return 0, false
}

// Run is a stretch of text sharing one style. A line break is "\n".
type Run struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// Cell is one table cell.
type Cell struct {
	Runs   []Run
	Header bool
}

// Table holds the rows of a table block. Head rows render inside <thead>.
type Table struct {
	Head [][]Cell
	Body [][]Cell
}

func (t *Table) clone() *Table {
	if t == nil {
		return nil
	}
	cp := func(rows [][]Cell) [][]Cell {
		out := make([][]Cell, len(rows))
		for i, row := range rows {
			out[i] = make([]Cell, len(row))
			for j, c := range row {
				out[i][j] = Cell{Runs: CloneRuns(c.Runs), Header: c.Header}
			}
		}
		return out
	}
	return &Table{Head: cp(t.Head), Body: cp(t.Body)}
}

// Text returns the cell texts, tab separated per row and newline separated
// between rows.
func (t *Table) Text() string {
	if t == nil {
		return ""
	}
	var lines []string
	for _, rows := range [][][]Cell{t.Head, t.Body} {
		for _, row := range rows {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i] = PlainText(c.Runs)
			}
			lines = append(lines, strings.Join(cells, "\t"))
		}
	}
	return strings.Join(lines, "\n")
}

// Block is one node of a Document. Containers (lists) hold items; every
// other block is a leaf.
type Block struct {
	Kind      Kind
	Runs      []Run
	Indent    int
	Attrs     []html.Attribute
	Completed bool
	Table     *Table

	// Raw holds verbatim nodes for KindRaw blocks.
	Raw []*html.Node

	// Trailing holds nested block markup inside a list item (sub-lists).
	Trailing []*html.Node

	doc *Document

	parent, prev, next, first, last *Block
}

// NewBlock returns a detached block of kind k holding runs.
func NewBlock(k Kind, runs ...Run) *Block {
	return &Block{Kind: k, Runs: NormalizeRuns(runs)}
}

// NewText returns a detached block of kind k holding unstyled text.
func NewText(k Kind, text string) *Block {
	if text == "" {
		return &Block{Kind: k}
	}
	return &Block{Kind: k, Runs: []Run{{Text: text}}}
}

func (b *Block) Document() *Document { return b.doc }
func (b *Block) Parent() *Block      { return b.parent }
func (b *Block) PrevSibling() *Block { return b.prev }
func (b *Block) NextSibling() *Block { return b.next }
func (b *Block) FirstItem() *Block   { return b.first }

// Items returns the children of a container in order.
func (b *Block) Items() []*Block {
	var out []*Block
	for c := b.first; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// Text returns the block's plain text, markup discarded.
func (b *Block) Text() string {
	switch {
	case b.Kind.HasText():
		return PlainText(b.Runs)
	case b.Kind == KindTable:
		return b.Table.Text()
	case b.Kind.IsContainer():
		var parts []string
		for c := b.first; c != nil; c = c.next {
			parts = append(parts, c.Text())
		}
		return strings.Join(parts, "\n")
	case b.Kind == KindRaw:
		var sb strings.Builder
		for _, n := range b.Raw {
			nodeText(&sb, n)
		}
		return sb.String()
	}
	return ""
}

// IsEmpty reports whether the block has no visible text.
func (b *Block) IsEmpty() bool {
	return strings.TrimSpace(b.Text()) == ""
}

// Len is the length of the block's text in runes.
func (b *Block) Len() int {
	if !b.Kind.HasText() {
		return 0
	}
	n := 0
	for _, r := range b.Runs {
		n += utf8.RuneCountInString(r.Text)
	}
	return n
}

// Attr returns the value of the named extra attribute.
func (b *Block) Attr(key string) (string, bool) {
	for _, a := range b.Attrs {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Clone returns a detached deep copy of b. Items of a container are copied
// too.
func (b *Block) Clone() *Block {
	nb := &Block{
		Kind:      b.Kind,
		Runs:      CloneRuns(b.Runs),
		Indent:    b.Indent,
		Attrs:     append([]html.Attribute(nil), b.Attrs...),
		Completed: b.Completed,
		Table:     b.Table.clone(),
		Raw:       cloneNodes(b.Raw),
		Trailing:  cloneNodes(b.Trailing),
	}
	for c := b.first; c != nil; c = c.next {
		nb.appendChild(c.Clone())
	}
	return nb
}

func (b *Block) appendChild(c *Block) {
	c.parent = b
	c.prev = b.last
	c.next = nil
	if b.last != nil {
		b.last.next = c
	} else {
		b.first = c
	}
	b.last = c
}

// PlainText concatenates the text of runs.
func PlainText(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// CloneRuns returns a copy of runs.
func CloneRuns(runs []Run) []Run {
	if runs == nil {
		return nil
	}
	return append([]Run(nil), runs...)
}

// NormalizeRuns drops empty runs and merges neighbours with equal style.
func NormalizeRuns(runs []Run) []Run {
	var out []Run
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Style == r.Style {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

// SplitRuns cuts runs at rune offset off and returns both halves.
func SplitRuns(runs []Run, off int) (before, after []Run) {
	pos := 0
	for i, r := range runs {
		n := utf8.RuneCountInString(r.Text)
		switch {
		case off <= pos:
			return before, append(after, runs[i:]...)
		case off < pos+n:
			cut := runeIndex(r.Text, off-pos)
			before = append(before, Run{Text: r.Text[:cut], Style: r.Style})
			after = append(after, Run{Text: r.Text[cut:], Style: r.Style})
			return before, append(after, runs[i+1:]...)
		}
		before = append(before, r)
		pos += n
	}
	return before, after
}

// StyleRange sets (on) or clears style over runes [from, to).
func StyleRange(runs []Run, from, to int, style Style, on bool) []Run {
	if from >= to {
		return runs
	}
	head, rest := SplitRuns(runs, from)
	mid, tail := SplitRuns(rest, to-from)
	out := append([]Run(nil), head...)
	for _, r := range mid {
		if on {
			r.Style |= style
		} else {
			r.Style &^= style
		}
		out = append(out, r)
	}
	return NormalizeRuns(append(out, tail...))
}

// StylesAt returns the styles shared by every rune in [from, to). An empty
// range yields 0.
func StylesAt(runs []Run, from, to int) Style {
	if from >= to {
		return 0
	}
	_, rest := SplitRuns(runs, from)
	mid, _ := SplitRuns(rest, to-from)
	if len(mid) == 0 {
		return 0
	}
	acc := Style(0xff)
	for _, r := range mid {
		acc &= r.Style
	}
	return acc
}

func runeIndex(s string, n int) int {
	i := 0
	for n > 0 && i < len(s) {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n--
	}
	return i
}
